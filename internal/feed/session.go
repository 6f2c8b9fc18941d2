package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/session"
)

var (
	ErrNotSignedIn = errors.New("no user is signed in")
	ErrNotInPage   = errors.New("recipe is not in the current page")
	// ErrStaleFetch is returned by Load when a newer fetch superseded it.
	ErrStaleFetch = errors.New("feed fetch superseded by a newer request")
)

// Source produces feed pages. *Selector and the HTTP client both satisfy it.
type Source interface {
	Fetch(ctx context.Context, userID uuid.UUID, limit int, c Criteria) ([]models.Recipe, error)
}

// Actions persists swipe outcomes.
type Actions interface {
	Save(ctx context.Context, userID uuid.UUID, recipeID int64) error
	Report(ctx context.Context, userID uuid.UUID, recipeID int64, reason string) error
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

const (
	DefaultSessionPageSize = 20
	DefaultRefetchAt       = 3
)

type SessionConfig struct {
	PageSize int
	// RefetchAt triggers a reload once the page shrinks to this many cards.
	RefetchAt int
}

// Snapshot is a copy of the session's observable state.
type Snapshot struct {
	State      State
	Page       []models.Recipe
	Criteria   Criteria
	Err        error
	Generation uint64
}

// Session drives one user's swipe feed:
// Loading -> Ready(page) -> swipe -> Ready(page-1) -> ... -> Loading -> Ready(new page),
// with Empty once the pool is exhausted and Failed on backend errors.
type Session struct {
	source  Source
	actions Actions
	auth    *session.Store
	cfg     SessionConfig

	mu         sync.Mutex
	userID     uuid.UUID
	criteria   Criteria
	state      State
	page       []models.Recipe
	err        error
	generation uint64
}

// NewSession wires a feed session. If auth already holds an identity the
// session starts bound to that user.
func NewSession(source Source, actions Actions, auth *session.Store, cfg SessionConfig) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultSessionPageSize
	}
	if cfg.RefetchAt <= 0 {
		cfg.RefetchAt = DefaultRefetchAt
	}
	s := &Session{source: source, actions: actions, auth: auth, cfg: cfg}
	if auth != nil {
		if id, ok := auth.Current(); ok {
			s.userID = id.UserID
		}
	}
	return s
}

// Run follows auth events until ctx ends: sign-in binds the user and loads a
// page, sign-out drops the page and invalidates in-flight fetches. Loads run
// off the event loop so a slow backend never holds up auth delivery.
func (s *Session) Run(ctx context.Context) error {
	if s.auth == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	events, unsubscribe := s.auth.Subscribe()
	defer unsubscribe()

	cancelLoad := func() {}
	defer func() { cancelLoad() }()
	startLoad := func() {
		cancelLoad()
		var loadCtx context.Context
		loadCtx, cancelLoad = context.WithCancel(ctx)
		// failures are kept in the snapshot for a manual retry
		go func() { _ = s.Load(loadCtx) }()
	}

	// catch a sign-in that landed before the subscription existed
	if id, ok := s.auth.Current(); ok {
		s.mu.Lock()
		s.userID = id.UserID
		idle := s.state == StateIdle
		s.mu.Unlock()
		if idle {
			startLoad()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev.Type {
			case session.EventSignedIn:
				s.mu.Lock()
				s.userID = ev.Identity.UserID
				s.mu.Unlock()
				startLoad()
			case session.EventSignedOut:
				s.reset()
				cancelLoad()
			}
		}
	}
}

// Load fetches a fresh page with the current criteria, replacing the old one.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.userID == uuid.Nil {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	s.generation++
	gen := s.generation
	userID, c := s.userID, s.criteria
	s.state = StateLoading
	s.mu.Unlock()

	page, err := s.source.Fetch(ctx, userID, s.cfg.PageSize, c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrStaleFetch
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		return err
	}
	s.err = nil
	s.page = page
	if len(page) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StateReady
	}
	return nil
}

// SetCriteria changes the facets and reloads. Any fetch still running for the
// old criteria is discarded when it returns.
func (s *Session) SetCriteria(ctx context.Context, c Criteria) error {
	s.mu.Lock()
	s.criteria = c
	s.mu.Unlock()
	return s.Load(ctx)
}

// Like saves the recipe and drops it from the page. A nil error means the
// save went through; a refetch it triggers reports through Snapshot.
func (s *Session) Like(ctx context.Context, recipeID int64) error {
	userID, err := s.checkCard(recipeID)
	if err != nil {
		return err
	}
	if err := s.actions.Save(ctx, userID, recipeID); err != nil {
		return err
	}
	s.remove(ctx, recipeID)
	return nil
}

// Dislike drops the recipe from the page without persisting anything.
func (s *Session) Dislike(ctx context.Context, recipeID int64) error {
	if _, err := s.checkCard(recipeID); err != nil {
		return err
	}
	s.remove(ctx, recipeID)
	return nil
}

// Report flags the recipe and drops it from the page. As with Like, the
// error covers the report only.
func (s *Session) Report(ctx context.Context, recipeID int64, reason string) error {
	userID, err := s.checkCard(recipeID)
	if err != nil {
		return err
	}
	if err := s.actions.Report(ctx, userID, recipeID, reason); err != nil {
		return err
	}
	s.remove(ctx, recipeID)
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := make([]models.Recipe, len(s.page))
	copy(page, s.page)
	return Snapshot{
		State:      s.state,
		Page:       page,
		Criteria:   s.criteria,
		Err:        s.err,
		Generation: s.generation,
	}
}

func (s *Session) checkCard(recipeID int64) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == uuid.Nil {
		return uuid.Nil, ErrNotSignedIn
	}
	if indexOf(s.page, recipeID) < 0 {
		return uuid.Nil, ErrNotInPage
	}
	return s.userID, nil
}

func (s *Session) remove(ctx context.Context, recipeID int64) {
	s.mu.Lock()
	if i := indexOf(s.page, recipeID); i >= 0 {
		s.page = append(s.page[:i:i], s.page[i+1:]...)
	}
	refetch := s.state == StateReady && len(s.page) <= s.cfg.RefetchAt
	s.mu.Unlock()

	if refetch {
		// failures land in the snapshot; a stale result means a newer load owns the page
		_ = s.Load(ctx)
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.userID = uuid.Nil
	s.page = nil
	s.err = nil
	s.state = StateIdle
}

func indexOf(page []models.Recipe, recipeID int64) int {
	for i := range page {
		if page[i].ID == recipeID {
			return i
		}
	}
	return -1
}
