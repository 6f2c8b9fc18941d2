package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedRecipe is created when a user likes (swipes right on) a recipe.
type SavedRecipe struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_recipe" json:"user_id"`
	RecipeID   int64     `gorm:"not null;uniqueIndex:idx_saved_user_recipe;index" json:"recipe_id"`
	IsFavorite bool      `gorm:"not null;default:false" json:"is_favorite"`
	Recipe     *Recipe   `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

// Report flags a recipe as inappropriate. One per (user, recipe).
type Report struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_user_recipe" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_report_user_recipe;index" json:"recipe_id"`
	Reason    string    `gorm:"size:500;not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}

// Rating is a 1-5 star score. One per (user, recipe); re-rating overwrites.
type Rating struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_recipe" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_rating_user_recipe;index" json:"recipe_id"`
	Stars     int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RecipeID  int64     `gorm:"not null;index" json:"recipe_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
