package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/types"
)

var imageContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// ImageService manages recipe photos. Clients upload bytes straight to object
// storage with a presigned URL, then register the object key here.
type ImageService struct {
	db      *gorm.DB
	storage ObjectStorage
	now     func() time.Time
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates an ImageService. A nil storage disables uploads.
func NewImageService(db *gorm.DB, storage ObjectStorage) *ImageService {
	return &ImageService{db: db, storage: storage, now: time.Now}
}

// ImageObjectKey is the storage key for a new recipe photo.
func ImageObjectKey(recipeID int64, at time.Time, ext string) string {
	return fmt.Sprintf("recipes/%d-%d.%s", recipeID, at.Unix(), ext)
}

func (s *ImageService) PresignUpload(ctx context.Context, authorID uuid.UUID, recipeID int64, ext string) (*types.PresignedUpload, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", ErrInvalidInput, ext)
	}
	if _, err := ownedRecipe(s.db.WithContext(ctx), authorID, recipeID); err != nil {
		return nil, err
	}

	key := ImageObjectKey(recipeID, s.now(), ext)
	u, expires, err := s.storage.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	return &types.PresignedUpload{URL: u, ObjectKey: key, ExpiresAt: expires}, nil
}

// AddImage records an uploaded object against the recipe. Making it primary
// demotes any other primary image.
func (s *ImageService) AddImage(ctx context.Context, authorID uuid.UUID, recipeID int64, objectKey string, isPrimary bool) (*models.RecipeImage, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	prefix := fmt.Sprintf("recipes/%d-", recipeID)
	if !strings.HasPrefix(objectKey, prefix) {
		return nil, fmt.Errorf("%w: object key does not belong to recipe %d", ErrInvalidInput, recipeID)
	}

	image := &models.RecipeImage{
		RecipeID:  recipeID,
		ObjectKey: objectKey,
		ImageURL:  s.storage.PublicURL(objectKey),
		IsPrimary: isPrimary,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedRecipe(tx, authorID, recipeID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.RecipeImage{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
			return err
		}
		// the first photo is always primary
		if count == 0 {
			image.IsPrimary = true
		}
		if image.IsPrimary {
			if err := tx.Model(&models.RecipeImage{}).
				Where("recipe_id = ?", recipeID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(image).Error
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

// SetPrimaryImage flags one image as primary and clears the rest.
func (s *ImageService) SetPrimaryImage(ctx context.Context, authorID uuid.UUID, recipeID, imageID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedRecipe(tx, authorID, recipeID); err != nil {
			return err
		}
		if _, err := recipeImage(tx, recipeID, imageID); err != nil {
			return err
		}
		if err := tx.Model(&models.RecipeImage{}).
			Where("recipe_id = ?", recipeID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.RecipeImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error
	})
}

// DeleteImage removes the stored object, then the row.
func (s *ImageService) DeleteImage(ctx context.Context, authorID uuid.UUID, recipeID, imageID int64) error {
	if s.storage == nil {
		return ErrStorageDisabled
	}
	db := s.db.WithContext(ctx)
	if _, err := ownedRecipe(db, authorID, recipeID); err != nil {
		return err
	}
	image, err := recipeImage(db, recipeID, imageID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, image.ObjectKey); err != nil {
		return err
	}
	if err := db.Delete(image).Error; err != nil {
		return err
	}

	logging.Ctx(ctx).Info().
		Str("component", "images").
		Int64("recipe_id", recipeID).
		Int64("image_id", imageID).
		Msg("recipe image deleted")
	return nil
}

func recipeImage(tx *gorm.DB, recipeID, imageID int64) (*models.RecipeImage, error) {
	var image models.RecipeImage
	err := tx.Where("id = ? AND recipe_id = ?", imageID, recipeID).First(&image).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &image, nil
}
