package result

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Validity is the tri-state expected validity of a test instance.
// The zero value is Unknown: no ground truth is available.
type Validity int8

const (
	Unknown Validity = iota
	Valid
	Invalid
)

// ValidityOf converts a known boolean validity.
func ValidityOf(valid bool) Validity {
	if valid {
		return Valid
	}
	return Invalid
}

// Known reports whether v carries ground truth.
func (v Validity) Known() bool {
	return v != Unknown
}

// Matches reports whether the actual validity agrees with v.
// Unknown matches everything.
func (v Validity) Matches(actual bool) bool {
	switch v {
	case Valid:
		return actual
	case Invalid:
		return !actual
	default:
		return true
	}
}

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Unknown as null.
func (v Validity) MarshalJSON() ([]byte, error) {
	switch v {
	case Valid:
		return []byte("true"), nil
	case Invalid:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false or null.
func (v *Validity) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("validity must be a boolean or null: %w", err)
	}
	if b == nil {
		*v = Unknown
		return nil
	}
	*v = ValidityOf(*b)
	return nil
}

// UnmarshalYAML accepts true, false, null or an empty value.
func (v *Validity) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*v = Unknown
		return nil
	}
	var b bool
	if err := node.Decode(&b); err != nil {
		return fmt.Errorf("line %d: validity must be a boolean or null: %w", node.Line, err)
	}
	*v = ValidityOf(b)
	return nil
}

// Validities is a convenience for building expectation slices in callers and
// tests. Each element must be a bool or nil.
func Validities(values ...any) []Validity {
	out := make([]Validity, len(values))
	for i, value := range values {
		switch b := value.(type) {
		case nil:
			out[i] = Unknown
		case bool:
			out[i] = ValidityOf(b)
		default:
			panic(fmt.Sprintf("result.Validities: unsupported value %T at %d", value, i))
		}
	}
	return out
}
