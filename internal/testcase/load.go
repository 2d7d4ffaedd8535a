package testcase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bowtie/internal/result"
)

// fixture is the on-disk form of a case. JSON-Schema-Test-Suite files decode
// into it unchanged.
type fixture struct {
	Description string               `yaml:"description"`
	Comment     string               `yaml:"comment,omitempty"`
	Schema      yaml.Node            `yaml:"schema"`
	Tests       []fixtureTest        `yaml:"tests"`
	Registry    map[string]yaml.Node `yaml:"registry,omitempty"`

	// Specification links are accepted and ignored.
	Specification any `yaml:"specification,omitempty"`
}

type fixtureTest struct {
	Description string          `yaml:"description"`
	Comment     string          `yaml:"comment,omitempty"`
	Instance    yaml.Node       `yaml:"instance"`
	Valid       result.Validity `yaml:"valid"`
}

// Decode reads a single case from YAML or JSON. Registry documents without
// a $schema are bound to dialect, which defaults to Draft202012.
func Decode(data []byte, dialect Dialect) (TestCase, error) {
	var f fixture
	if err := decodeStrict(data, &f); err != nil {
		return TestCase{}, fmt.Errorf("failed to parse fixture: %w", err)
	}
	tc, err := f.build(dialect)
	if err != nil {
		return TestCase{}, fmt.Errorf("invalid fixture: %w", err)
	}
	return tc, nil
}

// LoadFile reads a single case from path.
func LoadFile(path string, dialect Dialect) (TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TestCase{}, fmt.Errorf("failed to read fixture file: %w", err)
	}
	tc, err := Decode(data, dialect)
	if err != nil {
		return TestCase{}, fmt.Errorf("%s: %w", path, err)
	}
	return tc, nil
}

// LoadSuite reads a file holding a list of cases.
func LoadSuite(path string, dialect Dialect) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	var fixtures []fixture
	if err := decodeStrict(data, &fixtures); err != nil {
		return nil, fmt.Errorf("%s: failed to parse suite: %w", path, err)
	}
	cases := make([]TestCase, 0, len(fixtures))
	for i, f := range fixtures {
		tc, err := f.build(dialect)
		if err != nil {
			return nil, fmt.Errorf("%s: case %d: %w", path, i, err)
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

func decodeStrict(data []byte, v any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return nil
}

func (f fixture) build(dialect Dialect) (TestCase, error) {
	if dialect == "" {
		dialect = Draft202012
	}
	if f.Description == "" {
		return TestCase{}, errors.New("description is required")
	}
	if f.Schema.Kind == 0 {
		return TestCase{}, errors.New("schema is required")
	}
	schema, err := nodeValue(&f.Schema)
	if err != nil {
		return TestCase{}, fmt.Errorf("schema: %w", err)
	}

	tests := make([]Test, 0, len(f.Tests))
	for i, t := range f.Tests {
		if t.Description == "" {
			return TestCase{}, fmt.Errorf("test %d: description is required", i)
		}
		if t.Instance.Kind == 0 {
			return TestCase{}, fmt.Errorf("test %d: instance is required", i)
		}
		instance, err := nodeValue(&t.Instance)
		if err != nil {
			return TestCase{}, fmt.Errorf("test %d: instance: %w", i, err)
		}
		tests = append(tests, Test{
			Description: t.Description,
			Instance:    instance,
			Comment:     t.Comment,
			Valid:       t.Valid,
		})
	}

	documents := make(map[string]any, len(f.Registry))
	for uri, doc := range f.Registry {
		v, err := nodeValue(&doc)
		if err != nil {
			return TestCase{}, fmt.Errorf("registry %s: %w", uri, err)
		}
		documents[uri] = v
	}

	return New(f.Description, schema, tests,
		WithComment(f.Comment),
		WithRegistry(NewRegistry(dialect, documents)),
	), nil
}

// nodeValue converts a decoded YAML tree into JSON-ready values. Numbers
// keep their source text as json.Number so 1.0, bignums and out-of-range
// floats reach implementations exactly as written. Mapping keys become
// strings.
func nodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return nodeValue(node.Content[0])
	case yaml.AliasNode:
		return nodeValue(node.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := mappingKey(node.Content[i])
			if err != nil {
				return nil, err
			}
			value, err := nodeValue(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = value
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, len(node.Content))
		for i, item := range node.Content {
			value, err := nodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = value
		}
		return out, nil
	case yaml.ScalarNode:
		if isNumber(node) {
			return json.Number(node.Value), nil
		}
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}

// isNumber reports whether node holds JSON number text. Plain scalars that
// overflow float64, such as 1e400, resolve to !!str in YAML but are still
// numbers.
func isNumber(node *yaml.Node) bool {
	switch node.ShortTag() {
	case "!!int", "!!float":
	case "!!str":
		if node.Style != 0 {
			return false
		}
	default:
		return false
	}
	text := node.Value
	if text == "" || (text[0] != '-' && (text[0] < '0' || text[0] > '9')) {
		return false
	}
	return json.Valid([]byte(text))
}

func mappingKey(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}
