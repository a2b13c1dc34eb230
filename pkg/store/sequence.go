package store

import "sync/atomic"

// Ticket orders the requests issued by one store. A higher ticket was
// issued later.
type Ticket uint64

// Sequencer hands out monotonically increasing tickets. The zero value
// is ready to use and the first ticket is 1.
type Sequencer struct {
	n atomic.Uint64
}

// Next issues a new ticket
func (s *Sequencer) Next() Ticket {
	return Ticket(s.n.Add(1))
}
