package router

import "sync/atomic"

// Sequencer generates strictly monotonic sequence numbers for one shard.
type Sequencer struct {
	next atomic.Uint64
}

// NewSequencer creates a sequencer whose first Next returns start+1.
// start is the last sequence already written to the shard log.
func NewSequencer(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
