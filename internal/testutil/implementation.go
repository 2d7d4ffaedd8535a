package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/roach88/bowtie/internal/protocol"
)

// FakeImplementation is an in-memory Transport that behaves like a
// well-formed implementation: it answers start, accepts any dialect, and
// validates each instance with Verdict.
//
// Thread-safety: all methods are safe for concurrent use.
type FakeImplementation struct {
	Name     string
	Language string
	Dialects []string

	// Verdict decides each instance. Nil accepts everything.
	Verdict func(instance any) bool

	mu      sync.Mutex
	runs    int
	stopped bool
	pending chan []byte
}

// NewFakeImplementation returns an implementation named name.
func NewFakeImplementation(name string, verdict func(instance any) bool) *FakeImplementation {
	return &FakeImplementation{
		Name:     name,
		Language: "go",
		Verdict:  verdict,
		pending:  make(chan []byte, 1),
	}
}

func (f *FakeImplementation) Send(ctx context.Context, msg []byte) error {
	v, err := protocol.Parse(msg)
	if err != nil {
		return err
	}
	request, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("request is not an object: %s", msg)
	}

	var reply any
	switch request["cmd"] {
	case "start":
		implementation := map[string]any{"name": f.Name, "language": f.Language}
		if len(f.Dialects) > 0 {
			implementation["dialects"] = f.Dialects
		}
		reply = map[string]any{"version": protocol.Version, "implementation": implementation}
	case "dialect":
		reply = map[string]any{"ok": true}
	case "run":
		reply = f.run(request)
	case "stop":
		f.mu.Lock()
		f.stopped = true
		f.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("unknown command %v", request["cmd"])
	}

	data, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	select {
	case f.pending <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FakeImplementation) run(request map[string]any) any {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()

	tc, _ := request["case"].(map[string]any)
	tests, _ := tc["tests"].([]any)
	results := make([]any, len(tests))
	for i, raw := range tests {
		test, _ := raw.(map[string]any)
		valid := f.Verdict == nil || f.Verdict(test["instance"])
		results[i] = map[string]any{"valid": valid}
	}
	return map[string]any{"seq": request["seq"], "results": results}
}

func (f *FakeImplementation) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data := <-f.pending:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Runs returns how many run commands were received.
func (f *FakeImplementation) Runs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

// Stopped reports whether a stop command was received.
func (f *FakeImplementation) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}
