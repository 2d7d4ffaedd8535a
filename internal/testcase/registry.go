package testcase

import (
	"maps"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Resource is one schema document held by a Registry.
type Resource struct {
	Contents any

	// Dialect is the document's own $schema when it declares one, otherwise
	// the registry's dialect.
	Dialect Dialect
}

// Registry maps URIs to schema documents. It is immutable; the zero value is
// an empty registry.
//
// URIs are NFC-normalized so lookups do not depend on how a URI's Unicode
// was composed.
type Registry struct {
	dialect   Dialect
	resources map[string]Resource
}

// NewRegistry registers every document under its URI, bound to dialect.
// The documents map is copied.
func NewRegistry(dialect Dialect, documents map[string]any) Registry {
	r := Registry{
		dialect:   dialect,
		resources: make(map[string]Resource, len(documents)),
	}
	for uri, contents := range documents {
		r.resources[norm.NFC.String(uri)] = Resource{
			Contents: contents,
			Dialect:  declaredDialect(contents, dialect),
		}
	}
	return r
}

// declaredDialect returns the $schema of a document, or fallback when the
// document does not declare one.
func declaredDialect(contents any, fallback Dialect) Dialect {
	obj, ok := contents.(map[string]any)
	if !ok {
		return fallback
	}
	if s, ok := obj["$schema"].(string); ok && s != "" {
		return Dialect(s)
	}
	return fallback
}

// Dialect returns the dialect the registry is bound to.
func (r Registry) Dialect() Dialect { return r.dialect }

// Len returns the number of registered documents.
func (r Registry) Len() int { return len(r.resources) }

// Lookup returns the document registered under uri.
func (r Registry) Lookup(uri string) (Resource, bool) {
	res, ok := r.resources[norm.NFC.String(uri)]
	return res, ok
}

// URIs returns the registered URIs in sorted order.
func (r Registry) URIs() []string {
	return slices.Sorted(maps.Keys(r.resources))
}

// Contents flattens the registry to URI -> raw document, or nil when empty.
func (r Registry) Contents() map[string]any {
	if len(r.resources) == 0 {
		return nil
	}
	out := make(map[string]any, len(r.resources))
	for uri, res := range r.resources {
		out[uri] = res.Contents
	}
	return out
}
