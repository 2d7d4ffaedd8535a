// Package runner drives one implementation over a request/reply stream.
//
// A Runner owns exactly one Transport. Start performs the Start and Dialect
// handshake; any failure there is fatal and returned to the caller. After
// that, RunValidation submits cases that are exchanged strictly one at a
// time in submission order. Problems during a case never escape as errors:
// they become case outcomes (CaseErrored or Empty) so a single misbehaving
// case cannot stop a run.
//
// Thread-safety model:
//   - RunValidation, Submit and Stop: safe from any goroutine
//   - exchanges on the transport: serialized, never pipelined
//
// A Fleet fans cases out to many runners concurrently and folds their
// outcomes into one report.Summary.
package runner
