package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipechef/backend/internal/service"
	"github.com/swipechef/backend/internal/types"
)

// RatingHandler serves star ratings and written reviews.
type RatingHandler struct {
	ratings service.IRatingService
	reviews service.IReviewService
}

func NewRatingHandler(ratings service.IRatingService, reviews service.IReviewService) *RatingHandler {
	return &RatingHandler{ratings: ratings, reviews: reviews}
}

func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.PUT("/recipes/:id/rating", h.RateRecipe)
	router.GET("/recipes/:id/rating", h.GetUserRating)
	router.GET("/recipes/:id/rating/average", h.AverageRating)
	router.GET("/recipes/:id/reviews", h.ListReviews)
	router.POST("/recipes/:id/reviews", h.AddReview)
	router.DELETE("/reviews/:id", h.DeleteReview)
}

func (h *RatingHandler) RateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rating, err := h.ratings.RateRecipe(c.Request.Context(), userID, id, req.Stars)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

func (h *RatingHandler) GetUserRating(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rating, err := h.ratings.GetUserRating(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

func (h *RatingHandler) AverageRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	avg, count, err := h.ratings.AverageRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AverageRating{RecipeID: id, Average: avg, Count: count})
}

func (h *RatingHandler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.reviews.ListReviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *RatingHandler) AddReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	review, err := h.reviews.AddReview(c.Request.Context(), userID, id, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *RatingHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reviews.DeleteReview(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
