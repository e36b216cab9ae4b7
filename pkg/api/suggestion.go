package api

type SuggestRecipesRequest struct {
	Description string `json:"description"`
}

type SuggestedIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type SuggestedRecipe struct {
	RecipeName  string                 `json:"recipeName"`
	Ingredients []*SuggestedIngredient `json:"ingredients"`
}

type SuggestRecipesResponse struct {
	SuggestedRecipes []*SuggestedRecipe `json:"suggestedRecipes"`
	// Cached is true when the answer came from the suggestion cache.
	Cached bool `json:"cached"`
}
