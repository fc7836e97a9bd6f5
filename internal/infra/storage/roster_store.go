package storage

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jose-valero/war-roster-bot/internal/domain"
)

var (
	ErrNotFound     = errors.New("roster not found")
	ErrDuplicateKey = errors.New("roster already tracked")
)

// RosterStore owns every tracked roster, keyed by the id of the message
// that renders it. State is deliberately volatile: a restart forgets all
// rosters and their buttons answer "no longer active" from then on.
type RosterStore struct {
	mu    sync.RWMutex
	byMsg map[string]*domain.Roster

	done      chan struct{}
	closeOnce sync.Once
}

func NewRosterStore() *RosterStore {
	return &RosterStore{
		byMsg: make(map[string]*domain.Roster),
		done:  make(chan struct{}),
	}
}

// Put tracks a freshly posted roster. The record must already carry its
// message id.
func (s *RosterStore) Put(rec *domain.Roster) error {
	if rec.MessageID == "" {
		return errors.New("roster has no message id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byMsg[rec.MessageID]; ok {
		return ErrDuplicateKey
	}
	s.byMsg[rec.MessageID] = rec
	return nil
}

// Get returns a deep snapshot of the roster behind messageID.
func (s *RosterStore) Get(messageID string) (domain.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byMsg[messageID]
	if !ok {
		return domain.Roster{}, ErrNotFound
	}
	return rec.Clone(), nil
}

// Mutate applies fn under the store lock and returns a snapshot of the
// state fn produced. Callers render message edits from that snapshot, so
// an edit never carries a pre-mutation view of the roster.
func (s *RosterStore) Mutate(messageID string, fn func(*domain.Roster)) (domain.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byMsg[messageID]
	if !ok {
		return domain.Roster{}, ErrNotFound
	}
	fn(rec)
	return rec.Clone(), nil
}

func (s *RosterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byMsg)
}

// Sweep drops rosters that closed more than closedGrace ago, plus any
// record older than maxAge regardless of state. It returns the number of
// records dropped. A zero grace/age disables that rule.
func (s *RosterStore) Sweep(now time.Time, closedGrace, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, rec := range s.byMsg {
		stale := rec.Closed && rec.ClosedAt != nil && closedGrace > 0 &&
			now.Sub(*rec.ClosedAt) >= closedGrace
		ancient := maxAge > 0 && now.Sub(rec.CreatedAt) >= maxAge
		if stale || ancient {
			delete(s.byMsg, id)
			dropped++
		}
	}
	return dropped
}

// RunSweeper periodically evicts stale records until Close is called.
// Run it on its own goroutine.
func (s *RosterStore) RunSweeper(c clockwork.Clock, interval, closedGrace, maxAge time.Duration) {
	for {
		timer := c.NewTimer(interval)
		select {
		case <-s.done:
			timer.Stop()
			return
		case <-timer.Chan():
		}
		if n := s.Sweep(c.Now(), closedGrace, maxAge); n > 0 {
			log.Printf("[sweep] dropped %d stale roster(s), %d tracked", n, s.Len())
		}
	}
}

// Close stops the sweeper. The store itself needs no teardown.
func (s *RosterStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
