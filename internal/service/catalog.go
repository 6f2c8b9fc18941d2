package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/metrics"
	"github.com/swipechef/backend/internal/models"
)

const (
	CategoriesCacheKey = "catalog:categories"
	TagsCacheKey       = "catalog:tags"
)

// CatalogService serves the category and tag lists used by the feed filters.
// Lists are cached; any cache failure falls through to the database.
type CatalogService struct {
	db    *gorm.DB
	cache Cache
	ttl   time.Duration
}

var _ ICatalogService = (*CatalogService)(nil)

// NewCatalogService creates a catalog service. A nil cache disables caching.
func NewCatalogService(db *gorm.DB, cache Cache, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CatalogService{db: db, cache: cache, ttl: ttl}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if s.cached(ctx, CategoriesCacheKey, "categories", &categories) {
		return categories, nil
	}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	s.store(ctx, CategoriesCacheKey, categories)
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	if s.cached(ctx, TagsCacheKey, "tags", &tags) {
		return tags, nil
	}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	s.store(ctx, TagsCacheKey, tags)
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tag, nil
}

// Invalidate drops both cached lists, e.g. after seeding.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, CategoriesCacheKey, TagsCacheKey)
}

func (s *CatalogService) cached(ctx context.Context, key, name string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		return false
	}
	if ok && json.Unmarshal(raw, dest) == nil {
		metrics.RecordCacheLookup(name, true)
		return true
	}
	metrics.RecordCacheLookup(name, false)
	return false
}

func (s *CatalogService) store(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}
