package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/bowtie/internal/protocol"
)

//go:embed io.cue
var ioSchema string

// Commands lists every command that has IO schemas.
var Commands = []string{"start", "dialect", "run", "stop"}

// Validator checks instances against the embedded IO schemas.
//
// A cue.Context is not safe for concurrent use, so Validate serializes
// access. The URI table is fixed at construction.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// New compiles the IO schemas and registers them under scheme's URIs.
func New(scheme protocol.Scheme) (*Validator, error) {
	if scheme == nil {
		scheme = protocol.WebScheme{}
	}

	ctx := cuecontext.New()
	root := ctx.CompileString(ioSchema, cue.Filename("io.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile io schema: %w", err)
	}

	v := &Validator{
		ctx:     ctx,
		schemas: make(map[string]cue.Value, 2*len(Commands)),
	}
	for _, name := range Commands {
		bindings := []struct{ uri, path string }{
			{scheme.Request(name), "#Commands." + name + ".request"},
			{scheme.Response(name), "#Commands." + name + ".response"},
		}
		for _, b := range bindings {
			def := root.LookupPath(cue.ParsePath(b.path))
			if !def.Exists() {
				return nil, fmt.Errorf("internal error: schema definition %s not found", b.path)
			}
			if _, dup := v.schemas[b.uri]; dup {
				return nil, fmt.Errorf("scheme maps two schemas to %s", b.uri)
			}
			v.schemas[b.uri] = def
		}
	}
	return v, nil
}

// NewCodec returns a protocol.Codec gated by a new Validator for scheme.
func NewCodec(scheme protocol.Scheme) (protocol.Codec, error) {
	if scheme == nil {
		scheme = protocol.WebScheme{}
	}
	v, err := New(scheme)
	if err != nil {
		return protocol.Codec{}, err
	}
	return protocol.NewCodec(scheme, v), nil
}

// URIs returns every registered schema URI in sorted order.
func (v *Validator) URIs() []string {
	uris := make([]string, 0, len(v.schemas))
	for uri := range v.schemas {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// Validate implements protocol.Validator.
func (v *Validator) Validate(instance any, uri string) error {
	def, ok := v.schemas[uri]
	if !ok {
		return &protocol.ValidationError{URI: uri, Err: errors.New("no schema registered")}
	}

	data, err := protocol.Marshal(instance)
	if err != nil {
		return &protocol.ValidationError{URI: uri, Err: fmt.Errorf("instance is not JSON: %w", err)}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract(uri, data)
	if err != nil {
		return &protocol.ValidationError{URI: uri, Err: formatCUEError(err)}
	}
	value := v.ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return &protocol.ValidationError{URI: uri, Err: formatCUEError(err)}
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return &protocol.ValidationError{URI: uri, Err: formatCUEError(err)}
	}
	return nil
}

// formatCUEError flattens a CUE error list into one error.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return errors.New(strings.Join(msgs, "; "))
}
