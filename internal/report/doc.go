// Package report provides sinks for case outcomes.
//
// Summary folds outcomes into per-implementation tallies and is safe to feed
// from many goroutines. LogReporter writes one structured log record per
// case. Multi fans a single outcome out to several reporters.
package report
