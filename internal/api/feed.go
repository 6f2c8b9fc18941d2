package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swipechef/backend/config"
	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/types"
)

// FeedSelector is satisfied by *feed.Selector.
type FeedSelector interface {
	Select(ctx context.Context, userID uuid.UUID, limit int, c feed.Criteria) ([]models.Recipe, error)
}

type FeedHandler struct {
	selector FeedSelector
	cfg      config.FeedConfig
}

func NewFeedHandler(selector FeedSelector, cfg config.FeedConfig) *FeedHandler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = feed.DefaultSessionPageSize
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &FeedHandler{selector: selector, cfg: cfg}
}

func (h *FeedHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/feed", h.GetFeed)
}

// GetFeed serves the next page of unseen recipes for the caller.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, criteria, err := ParseFeedQuery(c.Request.URL.Query(), h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	page, err := h.selector.Select(c.Request.Context(), userID, limit, criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FeedResponse{Recipes: page, Count: len(page)})
}

// ParseFeedQuery reads limit and the facet parameters. A missing limit uses
// def and a larger one is capped at max.
func ParseFeedQuery(q url.Values, def, max int) (int, feed.Criteria, error) {
	var c feed.Criteria

	limit := def
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, c, fmt.Errorf("limit must be a positive integer")
		}
		limit = n
	}
	if limit > max {
		limit = max
	}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return 0, c, fmt.Errorf("invalid category_id")
		}
		c.CategoryID = &id
	}
	if raw := q.Get("difficulty"); raw != "" {
		d, err := models.ParseDifficulty(strings.ToLower(raw))
		if err != nil {
			return 0, c, err
		}
		c.Difficulty = &d
	}
	if raw := q.Get("max_prep_time"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, c, fmt.Errorf("invalid max_prep_time")
		}
		c.MaxPrepTime = &n
	}
	tags, err := parseIDList(q["tag_ids"])
	if err != nil {
		return 0, c, err
	}
	c.TagIDs = tags
	return limit, c, nil
}

// parseIDList accepts both tag_ids=1,2 and repeated tag_ids=1&tag_ids=2.
func parseIDList(values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid tag id %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
