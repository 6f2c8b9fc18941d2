package feed

import (
	"github.com/swipechef/backend/internal/models"
)

// Criteria holds the user-selected facets for a feed request.
// A nil or empty facet places no restriction on that dimension.
type Criteria struct {
	CategoryID  *int64             `json:"category_id,omitempty"`
	Difficulty  *models.Difficulty `json:"difficulty,omitempty"`
	MaxPrepTime *int               `json:"max_prep_time,omitempty"`
	TagIDs      []int64            `json:"tag_ids,omitempty"`
}

// Active reports whether any facet is set.
func (c Criteria) Active() bool {
	return c.CategoryID != nil || c.Difficulty != nil || c.MaxPrepTime != nil || len(c.TagIDs) > 0
}

// Matches reports whether the recipe satisfies every active facet.
// Tag matching is inclusive: one shared tag is enough.
func (c Criteria) Matches(r *models.Recipe) bool {
	if c.CategoryID != nil {
		if r.CategoryID == nil || *r.CategoryID != *c.CategoryID {
			return false
		}
	}
	if c.Difficulty != nil && r.Difficulty != *c.Difficulty {
		return false
	}
	if c.MaxPrepTime != nil {
		// recipes without a recorded prep time cannot satisfy the bound
		if r.PrepTimeMinutes == nil || *r.PrepTimeMinutes > *c.MaxPrepTime {
			return false
		}
	}
	if len(c.TagIDs) > 0 && !hasAnyTag(r, c.TagIDs) {
		return false
	}
	return true
}

func hasAnyTag(r *models.Recipe, want []int64) bool {
	for _, t := range r.Tags {
		for _, id := range want {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

// FilterRecipes returns the recipes matching c, preserving input order.
func FilterRecipes(recipes []models.Recipe, c Criteria) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for i := range recipes {
		if c.Matches(&recipes[i]) {
			out = append(out, recipes[i])
		}
	}
	return out
}
