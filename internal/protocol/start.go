package protocol

import "fmt"

// Version is the only protocol version this harness speaks.
const Version = 1

// Start opens a session with an implementation.
type Start struct {
	Version int
}

// StartV1 is the start request for the supported protocol version.
var StartV1 = Start{Version: Version}

func (Start) Name() string { return "start" }

func (s Start) Fields() map[string]any {
	return map[string]any{"version": s.Version}
}

func (Start) Response(raw []byte) (Started, error) {
	var wire struct {
		Implementation map[string]any `json:"implementation"`
		Version        int            `json:"version"`
		Ready          *bool          `json:"ready"`
	}
	if err := unmarshal("start", raw, &wire); err != nil {
		return Started{}, err
	}
	return NewStarted(wire.Implementation, wire.Version, wire.Ready)
}

// Started describes an implementation that accepted a start request.
type Started struct {
	Implementation map[string]any
	Version        int
}

// NewStarted checks the protocol version and readiness of a start response.
// A nil ready means the implementation did not say, which counts as ready.
func NewStarted(implementation map[string]any, version int, ready *bool) (Started, error) {
	if version != Version {
		return Started{}, &VersionMismatchError{Expected: Version, Got: version}
	}
	if ready != nil && !*ready {
		return Started{}, ErrImplementationNotReady
	}
	return Started{Implementation: implementation, Version: version}, nil
}

func (s Started) metadata(key string) string {
	v, ok := s.Implementation[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ID identifies the implementation as "language-name" when both are known.
func (s Started) ID() string {
	language, name := s.metadata("language"), s.metadata("name")
	switch {
	case language != "" && name != "":
		return language + "-" + name
	default:
		return name
	}
}

// Dialects lists the dialect URIs the implementation declared support for.
func (s Started) Dialects() []string {
	raw, ok := s.Implementation["dialects"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, d := range raw {
		if str, ok := d.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
