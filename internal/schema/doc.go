// Package schema validates protocol messages against the IO schemas.
//
// The schemas are CUE definitions embedded from io.cue. A Validator binds
// each command's request and response definition to the URIs produced by a
// protocol.Scheme, so the same definitions serve both the web and the tag
// URI conventions.
//
// Instances are handed over as JSON and extracted with CUE's JSON encoder,
// then unified with the closed definition and checked for concreteness.
// Unknown fields in closed structs are rejected; in particular a test sent
// to an implementation may not carry its expected validity.
package schema
