package testutil

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/roach88/bowtie/internal/protocol"
)

// Reply is one scripted answer from a ScriptedTransport.
type Reply struct {
	Data []byte
	Err  error
	Hang bool
}

// Respond answers with a raw message.
func Respond(msg string) Reply { return Reply{Data: []byte(msg)} }

// Fail makes Receive return err.
func Fail(err error) Reply { return Reply{Err: err} }

// Hang makes Receive block until its context is done.
func Hang() Reply { return Reply{Hang: true} }

// ScriptedTransport replays canned replies in order, one per Receive, and
// records every message sent. Once the script runs out Receive returns
// io.EOF.
//
// Thread-safety: all methods are safe for concurrent use.
type ScriptedTransport struct {
	mu      sync.Mutex
	replies []Reply
	sent    [][]byte
	sendErr error
	closed  bool
}

// NewScriptedTransport returns a transport that answers with replies.
func NewScriptedTransport(replies ...Reply) *ScriptedTransport {
	return &ScriptedTransport{replies: replies}
}

// FailSends makes every later Send return err.
func (t *ScriptedTransport) FailSends(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

func (t *ScriptedTransport) Send(_ context.Context, msg []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent = append(t.sent, slices.Clone(msg))
	return nil
}

func (t *ScriptedTransport) Receive(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	if len(t.replies) == 0 {
		t.mu.Unlock()
		return nil, io.EOF
	}
	reply := t.replies[0]
	t.replies = t.replies[1:]
	t.mu.Unlock()

	if reply.Hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return reply.Data, reply.Err
}

// Close records that the transport was closed.
func (t *ScriptedTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (t *ScriptedTransport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Sent returns copies of the messages sent so far.
func (t *ScriptedTransport) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.sent))
	for i, msg := range t.sent {
		out[i] = slices.Clone(msg)
	}
	return out
}

// Commands returns the "cmd" of each message sent so far.
func (t *ScriptedTransport) Commands() []string {
	var out []string
	for _, msg := range t.Sent() {
		v, err := protocol.Parse(msg)
		if err != nil {
			out = append(out, "")
			continue
		}
		cmd, _ := v.(map[string]any)["cmd"].(string)
		out = append(out, cmd)
	}
	return out
}
