// Package session holds the signed-in identity of a client process and
// notifies subscribers when it changes.
//
// A Store is an explicit dependency: construct one per process (or per test)
// and hand it to whatever needs the current user or its bearer token.
//
//	store := session.NewStore()
//	events, unsubscribe := store.Subscribe()
//	defer unsubscribe()
//	store.SignIn(session.Identity{UserID: id, Token: tok})
//	ev := <-events // EventSignedIn
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Identity is the signed-in user as seen by a client.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Token  string
}

type EventType int

const (
	EventSignedIn EventType = iota + 1
	EventSignedOut
)

func (t EventType) String() string {
	switch t {
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	}
	return "unknown"
}

// Event is delivered to subscribers on every sign-in or sign-out.
type Event struct {
	Type     EventType
	Identity Identity
}

type subscription struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

// Store is the process-wide auth session.
type Store struct {
	mu      sync.RWMutex
	current *Identity
	subs    map[int]*subscription
	nextID  int

	// notifyMu keeps event delivery in the order the transitions happened.
	notifyMu sync.Mutex
}

func NewStore() *Store {
	return &Store{subs: make(map[int]*subscription)}
}

// SignIn replaces the current identity and notifies subscribers.
func (s *Store) SignIn(id Identity) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	cp := id
	s.current = &cp
	subs := s.snapshotLocked()
	s.mu.Unlock()

	deliver(subs, Event{Type: EventSignedIn, Identity: id})
}

// SignOut clears the current identity. Signing out while signed out is a no-op.
func (s *Store) SignOut() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	prev := *s.current
	s.current = nil
	subs := s.snapshotLocked()
	s.mu.Unlock()

	deliver(subs, Event{Type: EventSignedOut, Identity: prev})
}

// Current returns the signed-in identity, if any.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// Token returns the bearer token of the current identity, or "".
func (s *Store) Token() string {
	id, _ := s.Current()
	return id.Token
}

// Subscribe registers for session events. The returned function unsubscribes;
// it is safe to call more than once. The channel is never closed, so readers
// should also watch their own context.
func (s *Store) Subscribe() (<-chan Event, func()) {
	sub := &subscription{
		ch:   make(chan Event, 4),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	unsubscribe := func() {
		sub.once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.done)
		})
	}
	return sub.ch, unsubscribe
}

func (s *Store) snapshotLocked() []*subscription {
	subs := make([]*subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	return subs
}

func deliver(subs []*subscription, ev Event) {
	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		}
	}
}
