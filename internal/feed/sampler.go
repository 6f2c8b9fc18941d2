package feed

import (
	"math/rand"
	"sync"
	"time"

	"github.com/swipechef/backend/internal/models"
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// lockedRand makes a *rand.Rand safe for concurrent handlers.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rnd.Shuffle(n, swap)
}

var defaultShuffler Shuffler = newLockedRand(time.Now().UnixNano())

// Sample shuffles a copy of recipes and returns at most limit of them.
// The result is never nil.
func Sample(recipes []models.Recipe, limit int, rng Shuffler) []models.Recipe {
	if rng == nil {
		rng = defaultShuffler
	}
	page := make([]models.Recipe, len(recipes))
	copy(page, recipes)
	rng.Shuffle(len(page), func(i, j int) { page[i], page[j] = page[j], page[i] })
	if limit >= 0 && len(page) > limit {
		page = page[:limit]
	}
	return page
}
