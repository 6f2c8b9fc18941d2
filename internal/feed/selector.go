package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/metrics"
	"github.com/swipechef/backend/internal/models"
)

const (
	DefaultReportThreshold = 2
	DefaultOverFetchFactor = 3
)

// Options tunes the selector.
type Options struct {
	// ReportThreshold is the platform-wide report count at which a recipe
	// disappears from every feed.
	ReportThreshold int
	// OverFetchFactor multiplies the page size when asking the store for
	// candidates, to absorb post-fetch filtering.
	OverFetchFactor int
	// Shuffler randomizes page order. Nil uses a shared time-seeded source.
	Shuffler Shuffler
}

// Selector computes the next page of unseen recipes for a user.
type Selector struct {
	store Store
	opts  Options
}

// NewSelector creates a Selector, filling zero options with defaults.
func NewSelector(store Store, opts Options) *Selector {
	if opts.ReportThreshold <= 0 {
		opts.ReportThreshold = DefaultReportThreshold
	}
	if opts.OverFetchFactor <= 0 {
		opts.OverFetchFactor = DefaultOverFetchFactor
	}
	if opts.Shuffler == nil {
		opts.Shuffler = defaultShuffler
	}
	return &Selector{store: store, opts: opts}
}

// Select returns up to limit recipes the user has neither saved nor had hidden
// by platform reports, matching every active facet of c, in random order.
// An exhausted pool yields an empty, non-nil page and a nil error.
func (s *Selector) Select(ctx context.Context, userID uuid.UUID, limit int, c Criteria) ([]models.Recipe, error) {
	start := time.Now()
	page, excluded, err := s.selectPage(ctx, userID, limit, c)
	metrics.FeedSelectDuration.Observe(time.Since(start).Seconds())

	log := logging.Ctx(ctx).With().Str("component", "feed").Str("user_id", userID.String()).Logger()
	switch {
	case err != nil:
		metrics.FeedPagesTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Int("limit", limit).Msg("feed selection failed")
		return nil, err
	case len(page) == 0:
		metrics.FeedPagesTotal.WithLabelValues("empty").Inc()
	default:
		metrics.FeedPagesTotal.WithLabelValues("ok").Inc()
	}
	metrics.FeedPageSize.Observe(float64(len(page)))
	metrics.FeedExcludedRecipes.Observe(float64(excluded))
	log.Debug().
		Int("limit", limit).
		Int("page_size", len(page)).
		Int("excluded", excluded).
		Bool("filtered", c.Active()).
		Msg("feed page selected")
	return page, nil
}

// Fetch makes Selector usable as an in-process Source.
func (s *Selector) Fetch(ctx context.Context, userID uuid.UUID, limit int, c Criteria) ([]models.Recipe, error) {
	return s.Select(ctx, userID, limit, c)
}

func (s *Selector) selectPage(ctx context.Context, userID uuid.UUID, limit int, c Criteria) ([]models.Recipe, int, error) {
	if limit <= 0 {
		return nil, 0, ErrInvalidLimit
	}
	excluded, err := BuildExclusionSet(ctx, s.store, userID, s.opts.ReportThreshold)
	if err != nil {
		return nil, 0, err
	}

	candidates, err := s.store.Candidates(ctx, CandidateQuery{
		Exclude:  excluded.IDs(),
		Criteria: c,
		Limit:    limit * s.opts.OverFetchFactor,
	})
	if err != nil {
		return nil, len(excluded), fmt.Errorf("failed to load candidate recipes: %w", err)
	}

	pool := make([]models.Recipe, 0, len(candidates))
	seen := make(map[int64]struct{}, len(candidates))
	for _, r := range candidates {
		if excluded.Contains(r.ID) {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		pool = append(pool, r)
	}

	return Sample(FilterRecipes(pool, c), limit, s.opts.Shuffler), len(excluded), nil
}
