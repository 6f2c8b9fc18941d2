package feed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swipechef/backend/internal/models"
)

func TestSampleTruncates(t *testing.T) {
	page := Sample(tenRecipes(), 4, identity{})
	assert.Len(t, page, 4)
	assert.Equal(t, int64(1), page[0].ID)
}

func TestSampleShortPool(t *testing.T) {
	page := Sample(tenRecipes()[:2], 20, identity{})
	assert.Len(t, page, 2)
}

func TestSampleEmpty(t *testing.T) {
	page := Sample(nil, 5, nil)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	in := tenRecipes()
	page := Sample(in, 10, reverse{})
	assert.Equal(t, int64(10), page[0].ID)
	assert.Equal(t, int64(1), in[0].ID)
}

func TestSampleIsPermutation(t *testing.T) {
	in := tenRecipes()
	page := Sample(in, 10, rand.New(rand.NewSource(42)))
	assert.ElementsMatch(t, ids(in), ids(page))
}

func TestSampleCoversPool(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seenFirst := make(map[int64]bool)
	for i := 0; i < 500; i++ {
		page := Sample(tenRecipes(), 1, rng)
		seenFirst[page[0].ID] = true
	}
	assert.Len(t, seenFirst, 10, "every recipe should lead a page at some point")
}

func TestSampleNoDuplicates(t *testing.T) {
	recipes := []models.Recipe{{ID: 1}, {ID: 2}, {ID: 3}}
	page := Sample(recipes, 3, nil)
	seen := map[int64]bool{}
	for _, r := range page {
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
	}
}
