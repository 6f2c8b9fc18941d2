package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions must match the recipes.embedding column.
const EmbeddingDimensions = 3

// LetterEmbedder produces a cheap deterministic embedding from text: total
// length, vowel count and consonant count.
type LetterEmbedder struct{}

func (LetterEmbedder) GenerateEmbedding(text string) (pgvector.Vector, error) {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, consonants}), nil
}

// recipeText is what gets embedded for a recipe.
func recipeText(title, description string) string {
	return strings.TrimSpace(title + " " + description)
}
