package runner

import (
	"sync/atomic"

	"github.com/roach88/bowtie/internal/result"
)

// Sequence hands out strictly increasing case numbers for one run.
// It is safe for concurrent use.
type Sequence struct {
	seq atomic.Int64
}

// NewSequence returns a sequence whose first Next is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt returns a sequence whose first Next is start+1.
func NewSequenceAt(start result.Seq) *Sequence {
	s := &Sequence{}
	s.seq.Store(int64(start))
	return s
}

// Next returns the next case number.
func (s *Sequence) Next() result.Seq {
	return result.Seq(s.seq.Add(1))
}

// Current returns the last number handed out, or the starting point.
func (s *Sequence) Current() result.Seq {
	return result.Seq(s.seq.Load())
}
