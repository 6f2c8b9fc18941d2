package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipechef/backend/internal/service"
	"github.com/swipechef/backend/internal/types"
)

type ReportHandler struct {
	reports service.IReportService
	limit   gin.HandlerFunc
}

// NewReportHandler creates the report handler. limit, when set, runs before
// a report is filed.
func NewReportHandler(reports service.IReportService, limit gin.HandlerFunc) *ReportHandler {
	return &ReportHandler{reports: reports, limit: limit}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	if h.limit != nil {
		router.POST("/recipes/:id/report", h.limit, h.ReportRecipe)
	} else {
		router.POST("/recipes/:id/report", h.ReportRecipe)
	}
	router.GET("/recipes/:id/report", h.ReportStatus)
}

// ReportRecipe flags a recipe. The body is optional.
func (h *ReportHandler) ReportRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	report, err := h.reports.ReportRecipe(c.Request.Context(), userID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// ReportStatus tells the caller whether they reported the recipe and how
// many reports it has.
func (h *ReportHandler) ReportStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	reported, err := h.reports.HasUserReported(ctx, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := h.reports.ReportCount(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ReportStatus{RecipeID: id, Reported: reported, Count: count})
}
