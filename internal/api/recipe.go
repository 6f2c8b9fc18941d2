package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swipechef/backend/internal/service"
	"github.com/swipechef/backend/internal/types"
)

type RecipeHandler struct {
	recipes     service.IRecipeService
	createLimit gin.HandlerFunc
}

// NewRecipeHandler creates the recipe handler. createLimit, when set, runs
// before recipe creation.
func NewRecipeHandler(recipes service.IRecipeService, createLimit gin.HandlerFunc) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, createLimit: createLimit}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/random", h.RandomRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
		if h.createLimit != nil {
			recipes.POST("", h.createLimit, h.CreateRecipe)
		} else {
			recipes.POST("", h.CreateRecipe)
		}
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	limit, criteria, err := ParseFeedQuery(c.Request.URL.Query(), 50, 200)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			badRequest(c, "invalid offset")
			return
		}
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), types.RecipeFilter{
		CategoryID:  criteria.CategoryID,
		Difficulty:  criteria.Difficulty,
		MaxPrepTime: criteria.MaxPrepTime,
		TagIDs:      criteria.TagIDs,
		Search:      c.Query("q"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	recipes, err := h.recipes.SearchRecipes(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) RandomRecipes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	recipes, err := h.recipes.RandomRecipes(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
