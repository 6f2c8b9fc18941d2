package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipechef/backend/internal/service"
)

// SavedHandler serves likes and favorites.
type SavedHandler struct {
	saved service.ISavedService
}

func NewSavedHandler(saved service.ISavedService) *SavedHandler {
	return &SavedHandler{saved: saved}
}

func (h *SavedHandler) RegisterRoutes(router *gin.RouterGroup) {
	saved := router.Group("/saved")
	{
		saved.GET("", h.ListSaved)
		saved.GET("/favorites", h.ListFavorites)
		saved.POST("/:id", h.SaveRecipe)
		saved.DELETE("/:id", h.RemoveSavedRecipe)
		saved.POST("/:id/favorite", h.ToggleFavorite)
	}
}

func (h *SavedHandler) ListSaved(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	saved, err := h.saved.ListSaved(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (h *SavedHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	saved, err := h.saved.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// SaveRecipe is a right swipe.
func (h *SavedHandler) SaveRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	saved, err := h.saved.SaveRecipe(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": saved})
}

func (h *SavedHandler) RemoveSavedRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.saved.RemoveSavedRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SavedHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	saved, err := h.saved.ToggleFavorite(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}
