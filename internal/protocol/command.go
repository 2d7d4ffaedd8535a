package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

// Validator checks an instance against the schema at uri.
// It returns nil when the instance conforms.
type Validator interface {
	Validate(instance any, uri string) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(instance any, uri string) error

func (f ValidatorFunc) Validate(instance any, uri string) error {
	return f(instance, uri)
}

// Command is one request/response kind of the protocol.
//
// Command values are immutable: build one per request and use it once to
// decode the matching response.
type Command[R any] interface {
	// Name is the canonical command name, sent as "cmd".
	Name() string

	// Fields are the request fields besides "cmd".
	Fields() map[string]any

	// Response builds the typed response from a validated payload.
	Response(raw []byte) (R, error)
}

// Codec gates every request and response of a stream.
type Codec struct {
	Scheme    Scheme
	Validator Validator
}

// NewCodec returns a Codec. A nil scheme selects WebScheme.
func NewCodec(scheme Scheme, validator Validator) Codec {
	if scheme == nil {
		scheme = WebScheme{}
	}
	return Codec{Scheme: scheme, Validator: validator}
}

func (c Codec) validate(instance any, uri string) error {
	if c.Validator == nil {
		return errors.New("codec has no validator")
	}
	err := c.Validator.Validate(instance, uri)
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &ValidationError{URI: uri, Err: err}
}

// ToRequest builds {"cmd": name, ...fields} and validates it against the
// command's request schema.
func ToRequest[R any](cmd Command[R], codec Codec) (map[string]any, error) {
	request := maps.Clone(cmd.Fields())
	if request == nil {
		request = map[string]any{}
	}
	request["cmd"] = cmd.Name()

	if err := codec.validate(request, codec.Scheme.Request(cmd.Name())); err != nil {
		return nil, &RequestError{Command: cmd.Name(), Err: err}
	}
	return request, nil
}

// MarshalRequest is ToRequest followed by wire encoding.
func MarshalRequest[R any](cmd Command[R], codec Codec) ([]byte, error) {
	request, err := ToRequest(cmd, codec)
	if err != nil {
		return nil, err
	}
	data, err := Marshal(request)
	if err != nil {
		return nil, &RequestError{Command: cmd.Name(), Err: err}
	}
	return data, nil
}

// FromResponse parses raw as JSON, validates it against the command's
// response schema, and builds the typed response.
func FromResponse[R any](cmd Command[R], raw []byte, codec Codec) (R, error) {
	var zero R

	instance, err := Parse(raw)
	if err != nil {
		return zero, &ProtocolError{Command: cmd.Name(), Err: err}
	}
	if err := codec.validate(instance, codec.Scheme.Response(cmd.Name())); err != nil {
		return zero, &ProtocolError{Command: cmd.Name(), Err: err}
	}
	return cmd.Response(raw)
}

// Marshal encodes a wire value as compact JSON without HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Parse decodes one JSON document, keeping numbers as json.Number so that
// integers survive re-encoding unchanged.
func Parse(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("malformed JSON: trailing data after document")
	}
	return v, nil
}

// unmarshal decodes a validated payload into a typed wire struct.
func unmarshal(command string, raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &ProtocolError{Command: command, Err: err}
	}
	return nil
}
