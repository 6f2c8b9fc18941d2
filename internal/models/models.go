package models

// All lists every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Category{},
		&Tag{},
		&Recipe{},
		&RecipeImage{},
		&SavedRecipe{},
		&Report{},
		&Rating{},
		&Review{},
	}
}
