// Package protocol implements the command/response protocol spoken with
// implementations under test.
//
// Every exchange is a Command: a canonical name, the fields of its request,
// and a way to build a typed response. Four kinds exist:
//
//	start   {version}        -> Started
//	dialect {dialect}        -> StartedDialect
//	run     {seq, case}      -> CaseResponse (bound later to a result.CaseOutcome)
//	stop    {}               -> None
//
// Encoding and decoding are written once, in ToRequest and FromResponse, and
// work for any Command. Both are gated by a Validator: a request is validated
// before it may be sent, and a response is validated before any of it is
// trusted. Schema addresses come from a Scheme, so the URI convention can be
// swapped without touching the commands.
//
// The protocol version is pinned at 1. An incompatible protocol gets a new
// namespace rather than an in-place schema edit.
package protocol
