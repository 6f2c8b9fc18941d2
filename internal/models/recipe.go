package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// Difficulty is the effort level of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty converts a raw query or body value into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name" binding:"required,max=200"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Step is one ordered instruction of a recipe.
type Step struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction" binding:"required"`
}

// Ingredients is stored as a JSON array column
type Ingredients []Ingredient

// Value implements the driver.Valuer interface
func (i Ingredients) Value() (driver.Value, error) {
	return jsonValue(i, len(i))
}

// Scan implements the sql.Scanner interface
func (i *Ingredients) Scan(value interface{}) error {
	*i = Ingredients{}
	return scanJSON(value, i)
}

// Steps is stored as a JSON array column
type Steps []Step

// Value implements the driver.Valuer interface
func (s Steps) Value() (driver.Value, error) {
	return jsonValue(s, len(s))
}

// Scan implements the sql.Scanner interface
func (s *Steps) Scan(value interface{}) error {
	*s = Steps{}
	return scanJSON(value, s)
}

func jsonValue(v interface{}, n int) (driver.Value, error) {
	if n == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(value interface{}, dest interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dest)
}

// Recipe is a user-authored recipe card.
type Recipe struct {
	ID              int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string           `gorm:"size:200;not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	Ingredients     Ingredients      `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps           Steps            `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	Difficulty      Difficulty       `gorm:"size:10;not null;default:'easy';index" json:"difficulty"`
	PrepTimeMinutes *int             `gorm:"index" json:"prep_time_minutes"`
	Servings        int              `gorm:"not null;default:1" json:"servings"`
	AvgRating       float64          `gorm:"not null;default:0" json:"avg_rating"`
	AuthorID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"author_id"`
	CategoryID      *int64           `gorm:"index" json:"category_id"`
	Category        *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images          []RecipeImage    `gorm:"foreignKey:RecipeID" json:"images,omitempty"`
	Tags            []Tag            `gorm:"many2many:recipe_tags;" json:"tags,omitempty"`
	Embedding       *pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// TagIDs returns the identifiers of the recipe's loaded tags.
func (r *Recipe) TagIDs() []int64 {
	ids := make([]int64, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// PrimaryImage returns the image flagged as primary, falling back to the first one.
func (r *Recipe) PrimaryImage() *RecipeImage {
	for i := range r.Images {
		if r.Images[i].IsPrimary {
			return &r.Images[i]
		}
	}
	if len(r.Images) > 0 {
		return &r.Images[0]
	}
	return nil
}
