package protocol

// Dialect tells a started implementation which dialect the next cases use.
type Dialect struct {
	Dialect string
}

func (Dialect) Name() string { return "dialect" }

func (d Dialect) Fields() map[string]any {
	return map[string]any{"dialect": d.Dialect}
}

func (Dialect) Response(raw []byte) (StartedDialect, error) {
	var wire struct {
		OK bool `json:"ok"`
	}
	if err := unmarshal("dialect", raw, &wire); err != nil {
		return StartedDialect{}, err
	}
	if wire.OK {
		return DialectOK, nil
	}
	return StartedDialect{OK: false}, nil
}

// StartedDialect is an implementation's answer to a dialect request.
type StartedDialect struct {
	OK bool
}

// DialectOK is the success answer.
var DialectOK = StartedDialect{OK: true}
