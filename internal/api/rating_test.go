package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swipechef/backend/internal/api"
	"github.com/swipechef/backend/internal/mocks"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/service"
)

func TestRatingHandlerRate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		body   string
		stars  int
		err    error
		status int
	}{
		{name: "valid", body: `{"stars":4}`, stars: 4, status: http.StatusOK},
		{name: "unknown recipe", body: `{"stars":5}`, stars: 5, err: service.ErrNotFound, status: http.StatusNotFound},
		{name: "too many stars", body: `{"stars":6}`, status: http.StatusBadRequest},
		{name: "zero stars", body: `{"stars":0}`, status: http.StatusBadRequest},
		{name: "missing body", body: `{}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings := new(mocks.MockRatingService)
			if tt.stars > 0 {
				var rating *models.Rating
				if tt.err == nil {
					rating = &models.Rating{RecipeID: 3, UserID: userID, Stars: tt.stars}
				}
				ratings.On("RateRecipe", mock.Anything, userID, int64(3), tt.stars).Return(rating, tt.err).Once()
			}

			r := setupRouter(t, userID, api.NewRatingHandler(ratings, new(mocks.MockReviewService)))
			w := request(r, http.MethodPut, "/api/v1/recipes/3/rating", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"stars":4`)
			}
			if tt.stars == 0 {
				ratings.AssertNotCalled(t, "RateRecipe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			ratings.AssertExpectations(t)
		})
	}
}

func TestRatingHandlerReads(t *testing.T) {
	userID := uuid.New()
	ratings := new(mocks.MockRatingService)
	ratings.On("GetUserRating", mock.Anything, userID, int64(3)).Return(nil, service.ErrNotFound).Once()
	ratings.On("AverageRating", mock.Anything, int64(3)).Return(4.5, int64(2), nil).Once()

	r := setupRouter(t, userID, api.NewRatingHandler(ratings, new(mocks.MockReviewService)))

	w := request(r, http.MethodGet, "/api/v1/recipes/3/rating", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(r, http.MethodGet, "/api/v1/recipes/3/rating/average", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recipe_id":3,"average":4.5,"count":2}`, w.Body.String())

	w = request(r, http.MethodGet, "/api/v1/recipes/zero/rating/average", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ratings.AssertExpectations(t)
}

func TestRatingHandlerReviews(t *testing.T) {
	userID := uuid.New()
	reviews := new(mocks.MockReviewService)
	reviews.On("AddReview", mock.Anything, userID, int64(3), "tasty").
		Return(&models.Review{ID: 9, RecipeID: 3, UserID: userID, Comment: "tasty"}, nil).Once()
	reviews.On("ListReviews", mock.Anything, int64(3)).
		Return([]models.Review{{ID: 9, RecipeID: 3, Comment: "tasty"}}, nil).Once()

	r := setupRouter(t, userID, api.NewRatingHandler(new(mocks.MockRatingService), reviews))

	w := request(r, http.MethodPost, "/api/v1/recipes/3/reviews", `{"comment":"tasty"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"comment":"tasty"`)

	w = request(r, http.MethodPost, "/api/v1/recipes/3/reviews", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodGet, "/api/v1/recipes/3/reviews", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":9`)

	reviews.AssertExpectations(t)
}

func TestRatingHandlerDeleteReview(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{name: "own review", path: "/api/v1/reviews/9", status: http.StatusNoContent},
		{name: "someone else's review", path: "/api/v1/reviews/9", err: service.ErrForbidden, status: http.StatusForbidden},
		{name: "missing review", path: "/api/v1/reviews/9", err: service.ErrNotFound, status: http.StatusNotFound},
		{name: "bad id", path: "/api/v1/reviews/nine", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(mocks.MockReviewService)
			if tt.status != http.StatusBadRequest {
				reviews.On("DeleteReview", mock.Anything, userID, int64(9)).Return(tt.err).Once()
			}

			r := setupRouter(t, userID, api.NewRatingHandler(new(mocks.MockRatingService), reviews))
			w := request(r, http.MethodDelete, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), errorBody(t, w))
			}
			reviews.AssertExpectations(t)
		})
	}
}
