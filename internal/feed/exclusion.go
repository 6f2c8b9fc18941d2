package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/swipechef/backend/internal/models"
)

var (
	ErrInvalidUser  = errors.New("user id is required")
	ErrInvalidLimit = errors.New("page size must be positive")
)

// CandidateQuery is what the selector asks the store for. Stores may push the
// exclusion list and any facet into the query; the selector re-checks both.
type CandidateQuery struct {
	Exclude  []int64
	Criteria Criteria
	Limit    int
}

// Store is the data access the feed needs.
type Store interface {
	SavedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
	// ReportCounts returns the platform-wide number of reports per recipe id.
	ReportCounts(ctx context.Context) (map[int64]int, error)
	Candidates(ctx context.Context, q CandidateQuery) ([]models.Recipe, error)
}

// ExclusionSet is the set of recipe ids hidden from one user's feed.
type ExclusionSet map[int64]struct{}

func (s ExclusionSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s ExclusionSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuildExclusionSet returns the user's saved recipes plus every recipe reported
// at least threshold times. Both lookups run concurrently; if either fails the
// whole set is discarded.
func BuildExclusionSet(ctx context.Context, store Store, userID uuid.UUID, threshold int) (ExclusionSet, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUser
	}

	var (
		saved  []int64
		counts map[int64]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := store.SavedRecipeIDs(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load saved recipes: %w", err)
		}
		saved = ids
		return nil
	})
	g.Go(func() error {
		c, err := store.ReportCounts(gctx)
		if err != nil {
			return fmt.Errorf("failed to load report counts: %w", err)
		}
		counts = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := make(ExclusionSet, len(saved))
	for _, id := range saved {
		set[id] = struct{}{}
	}
	for _, id := range OverReported(counts, threshold) {
		set[id] = struct{}{}
	}
	return set, nil
}

// OverReported returns the recipe ids whose report count reaches threshold.
func OverReported(counts map[int64]int, threshold int) []int64 {
	ids := make([]int64, 0)
	for id, n := range counts {
		if n >= threshold {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
