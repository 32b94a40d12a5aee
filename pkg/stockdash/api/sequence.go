package api

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Ticket tags one request of a data set.
type Ticket struct {
	Seq uint64
	ID  string
}

// Context returns ctx carrying the ticket's ID as the request ID.
func (t Ticket) Context(ctx context.Context) context.Context {
	return WithRequestID(ctx, t.ID)
}

// Sequencer issues increasing tickets so that only the response to the most
// recently issued request is applied.
type Sequencer struct {
	mu   sync.Mutex
	last uint64
}

func (s *Sequencer) Next() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return Ticket{Seq: s.last, ID: uuid.NewString()}
}

// IsLatest reports whether no ticket was issued after t.
func (s *Sequencer) IsLatest(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Seq == s.last
}
