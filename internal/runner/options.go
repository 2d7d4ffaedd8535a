package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Default timeouts.
const (
	DefaultStartTimeout = 30 * time.Second
	DefaultRunTimeout   = 10 * time.Second
	DefaultStopTimeout  = 5 * time.Second
)

type settings struct {
	startTimeout time.Duration
	runTimeout   time.Duration
	stopTimeout  time.Duration
	logger       *slog.Logger
	seq          *Sequence
	runID        string
}

func newSettings(opts []Option) settings {
	s := settings{
		startTimeout: DefaultStartTimeout,
		runTimeout:   DefaultRunTimeout,
		stopTimeout:  DefaultStopTimeout,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.seq == nil {
		s.seq = NewSequence()
	}
	return s
}

// Option configures a Runner or a Fleet.
type Option func(*settings)

// WithStartTimeout bounds the whole Start and Dialect handshake.
func WithStartTimeout(d time.Duration) Option {
	return func(s *settings) { s.startTimeout = d }
}

// WithRunTimeout bounds each Run exchange.
func WithRunTimeout(d time.Duration) Option {
	return func(s *settings) { s.runTimeout = d }
}

// WithStopTimeout bounds sending the Stop command.
func WithStopTimeout(d time.Duration) Option {
	return func(s *settings) { s.stopTimeout = d }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithSequence sets the source of case numbers used by Submit and Fleet.Run.
func WithSequence(seq *Sequence) Option {
	return func(s *settings) { s.seq = seq }
}

// WithRunID fixes a fleet's run id. The default is a fresh UUIDv7.
func WithRunID(id string) Option {
	return func(s *settings) { s.runID = id }
}

func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}
