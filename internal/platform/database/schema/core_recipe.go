package schema

// CoreRecipeTable represents the 'core.recipe' table
type CoreRecipeTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	Image       string
	OwnerID     string
	CreatedAt   string
	UpdatedAt   string
}

// CoreRecipe is the schema definition for core.recipe
var CoreRecipe = CoreRecipeTable{
	Table:       "core.recipe",
	ID:          "id",
	Title:       "title",
	Description: "description",
	Image:       "image",
	OwnerID:     "ownerid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CoreRecipeTable) Columns() []string {
	return []string{t.ID, t.Title, t.Description, t.Image, t.OwnerID, t.CreatedAt, t.UpdatedAt}
}
