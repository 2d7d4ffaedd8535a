// Package testcase models one schema-validation scenario: a root schema, the
// ordered instances to validate against it, and the registry of schemas it
// may reference, all bound to a dialect.
//
// Values are immutable after construction and safe to share between
// goroutines without locking. Wire views (Serializable and
// WithoutExpectedResults) are freshly built maps; the schemas and instances
// inside them are shared and must not be mutated.
//
// Fixtures are read with yaml.v3, which also accepts JSON:
//
//	description: minimum is inclusive
//	schema: {minimum: 3}
//	tests:
//	  - description: equal
//	    instance: 3
//	    valid: true
//	  - description: below
//	    instance: 2
//	    valid: false
//	registry:
//	  https://example.com/positive: {exclusiveMinimum: 0}
package testcase
