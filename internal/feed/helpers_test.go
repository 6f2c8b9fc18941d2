package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/swipechef/backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

// memStore is an in-memory Store. Candidates ignores criteria so the
// selector's own filtering is what the tests observe.
type memStore struct {
	mu        sync.Mutex
	recipes   []models.Recipe
	saved     map[uuid.UUID][]int64
	reports   map[int64]int
	savedErr  error
	reportErr error
	candErr   error
	lastQuery CandidateQuery
	// leaky ignores the exclusion list, like a store that cannot push it down.
	leaky bool
}

func newMemStore(recipes ...models.Recipe) *memStore {
	return &memStore{
		recipes: recipes,
		saved:   make(map[uuid.UUID][]int64),
		reports: make(map[int64]int),
	}
}

func (m *memStore) SavedRecipeIDs(_ context.Context, userID uuid.UUID) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.savedErr != nil {
		return nil, m.savedErr
	}
	return append([]int64(nil), m.saved[userID]...), nil
}

func (m *memStore) ReportCounts(ctx context.Context) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	out := make(map[int64]int, len(m.reports))
	for k, v := range m.reports {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Candidates(_ context.Context, q CandidateQuery) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	if m.candErr != nil {
		return nil, m.candErr
	}
	skip := make(map[int64]bool, len(q.Exclude))
	if !m.leaky {
		for _, id := range q.Exclude {
			skip[id] = true
		}
	}
	out := make([]models.Recipe, 0)
	for _, r := range m.recipes {
		if skip[r.ID] {
			continue
		}
		out = append(out, r)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// tenRecipes returns recipes 1..10 with no facets set.
func tenRecipes() []models.Recipe {
	out := make([]models.Recipe, 0, 10)
	for i := int64(1); i <= 10; i++ {
		out = append(out, models.Recipe{ID: i, Title: "recipe", AuthorID: uuid.New()})
	}
	return out
}

func ids(recipes []models.Recipe) []int64 {
	out := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// identity leaves order untouched.
type identity struct{}

func (identity) Shuffle(int, func(i, j int)) {}

// reverse reverses order, so tests can see that a shuffle was applied.
type reverse struct{}

func (reverse) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}
