package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// Transport carries framed messages to and from one implementation.
//
// Receive returns io.EOF once the implementation has closed its side.
type Transport interface {
	Send(ctx context.Context, msg []byte) error
	Receive(ctx context.Context) ([]byte, error)
}

// StreamTransport frames messages as newline-delimited JSON over a byte
// stream, typically an implementation's stdin and stdout.
//
// Reads happen on a background goroutine so Receive can honor ctx. A line
// that arrives after its Receive gave up is delivered to the next Receive.
// Close releases that goroutine once its current read returns; closing the
// underlying stream is left to its owner.
type StreamTransport struct {
	mu sync.Mutex
	w  io.Writer

	r     *bufio.Reader
	once  sync.Once
	lines chan frame

	closeOnce sync.Once
	done      chan struct{}
}

type frame struct {
	data []byte
	err  error
}

// NewStreamTransport frames messages over r and w.
func NewStreamTransport(r io.Reader, w io.Writer) *StreamTransport {
	return &StreamTransport{
		w:     w,
		r:     bufio.NewReader(r),
		lines: make(chan frame),
		done:  make(chan struct{}),
	}
}

// Send writes msg followed by a newline. msg must not contain a newline.
func (t *StreamTransport) Send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.closed() {
		return io.ErrClosedPipe
	}
	if bytes.IndexByte(msg, '\n') >= 0 {
		return errors.New("message contains a newline")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	buf := make([]byte, 0, len(msg)+1)
	buf = append(append(buf, msg...), '\n')
	_, err := t.w.Write(buf)
	return err
}

// Receive returns the next line without its terminator. An empty line is
// returned as an empty, non-nil slice.
func (t *StreamTransport) Receive(ctx context.Context) ([]byte, error) {
	if t.closed() {
		return nil, io.ErrClosedPipe
	}
	t.once.Do(func() { go t.readLoop() })
	select {
	case <-t.done:
		return nil, io.ErrClosedPipe
	case f, ok := <-t.lines:
		if !ok {
			return nil, io.EOF
		}
		return f.data, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops delivering lines. Later calls to Send and Receive fail with
// io.ErrClosedPipe.
func (t *StreamTransport) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

func (t *StreamTransport) closed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *StreamTransport) readLoop() {
	defer close(t.lines)
	deliver := func(f frame) bool {
		select {
		case t.lines <- f:
			return true
		case <-t.done:
			return false
		}
	}
	for {
		line, err := t.r.ReadBytes('\n')
		if len(line) > 0 && !deliver(frame{data: bytes.TrimRight(line, "\r\n")}) {
			return
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				deliver(frame{err: err})
			}
			return
		}
	}
}
