package models

import "time"

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Icon string `gorm:"size:50" json:"icon,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;not null;uniqueIndex" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// RecipeImage is a photo attached to a recipe. The bytes live in object storage.
type RecipeImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID  int64     `gorm:"not null;index" json:"recipe_id"`
	ImageURL  string    `gorm:"size:500;not null" json:"image_url"`
	ObjectKey string    `gorm:"size:300;not null" json:"-"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

func (RecipeImage) TableName() string {
	return "recipe_images"
}
