package protocol

// None is the response type of commands that have no response.
type None struct{}

// Stop ends a session. Implementations do not answer it.
type Stop struct{}

// StopCommand is the only Stop value.
var StopCommand = Stop{}

func (Stop) Name() string { return "stop" }

func (Stop) Fields() map[string]any { return nil }

func (Stop) Response([]byte) (None, error) { return None{}, nil }
