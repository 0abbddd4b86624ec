package notification

import (
	"sync"

	"github.com/odonto/admin-api/internal/model"
)

// Session is the operator's confirmation state for the life of the process:
// which appointments were marked paid and the transactions synthesised for
// them. Nothing here is persisted; a restart starts empty.
type Session struct {
	mu        sync.RWMutex
	confirmed ConfirmedSet
	reserved  map[string]struct{}
	pending   []*model.Transaction
}

func NewSession() *Session {
	return &Session{confirmed: make(ConfirmedSet), reserved: make(map[string]struct{})}
}

func (s *Session) IsConfirmed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confirmed.Has(id)
}

// Confirmed returns a snapshot safe to hand to Compute.
func (s *Session) Confirmed() ConfirmedSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(ConfirmedSet, len(s.confirmed))
	for id := range s.confirmed {
		out[id] = struct{}{}
	}
	return out
}

// Reserve claims the id for a confirmation in progress. It returns false when
// the id is already confirmed or another confirmation holds it. The holder
// must call Confirm or Release.
func (s *Session) Reserve(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirmed.Has(id) {
		return false
	}
	if _, held := s.reserved[id]; held {
		return false
	}
	s.reserved[id] = struct{}{}
	return true
}

// Release drops a reservation whose confirmation did not go through.
func (s *Session) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, id)
}

// Confirm records the appointment as paid along with its transaction and
// clears any reservation on it. It returns false when the id was already
// confirmed.
func (s *Session) Confirm(id string, tx *model.Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, id)
	if s.confirmed.Has(id) {
		return false
	}
	s.confirmed[id] = struct{}{}
	if tx != nil {
		cp := *tx
		s.pending = append(s.pending, &cp)
	}
	return true
}

// PendingTransactions returns the transactions confirmed this session, oldest first.
func (s *Session) PendingTransactions() []*model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Transaction, len(s.pending))
	for i, tx := range s.pending {
		cp := *tx
		out[i] = &cp
	}
	return out
}

// DropPending forgets a session transaction once it has been deleted. The
// appointment stays confirmed.
func (s *Session) DropPending(txID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.pending[:0]
	for _, tx := range s.pending {
		if tx.ID != txID {
			kept = append(kept, tx)
		}
	}
	s.pending = kept
}
