package api

// RecipeItemInput is a line item sent by the client. Set ID to keep a line
// that is already part of the saved recipe with its stored snapshot;
// otherwise IngredientID, DisplayQuantity and DisplayUnit price a new line
// from the current catalog.
type RecipeItemInput struct {
	ID              string  `json:"id,omitempty"`
	IngredientID    string  `json:"ingredientId,omitempty"`
	DisplayQuantity float64 `json:"displayQuantity,omitempty"`
	// DisplayUnit is a unit tag; empty means "original".
	DisplayUnit string `json:"displayUnit,omitempty"`
}

// RecipeInput is the editable state of a recipe. Nil cost parameters take
// the defaults of a new recipe (10% variable costs, no packaging, 100%
// margin). Suggestion, when set, names the draft after a SuggestRecipes
// result unless Name is also given.
type RecipeInput struct {
	ID                      string             `json:"id,omitempty"`
	Name                    string             `json:"name"`
	Items                   []*RecipeItemInput `json:"items"`
	VariableCostsPercentage *float64           `json:"variableCostsPercentage,omitempty"`
	PackagingCost           *float64           `json:"packagingCost,omitempty"`
	ProfitMargin            *float64           `json:"profitMargin,omitempty"`
	Suggestion              *SuggestedRecipe   `json:"suggestion,omitempty"`
}

// RecipeItem is a priced line item.
type RecipeItem struct {
	ID               string  `json:"id"`
	IngredientID     string  `json:"ingredientId"`
	IngredientName   string  `json:"ingredientName"`
	DisplayQuantity  float64 `json:"displayQuantity"`
	DisplayUnit      string  `json:"displayUnit"`
	DisplayUnitLabel string  `json:"displayUnitLabel"`
	BaseQuantity     float64 `json:"baseQuantity"`
	Cost             float64 `json:"cost"`
	CostFormatted    string  `json:"costFormatted"`
}

// Recipe is a cost breakdown. Costs are full precision; the *Formatted
// fields are rounded BRL text.
type Recipe struct {
	ID                       string        `json:"id,omitempty"`
	Name                     string        `json:"name"`
	Items                    []*RecipeItem `json:"items"`
	VariableCostsPercentage  float64       `json:"variableCostsPercentage"`
	PackagingCost            float64       `json:"packagingCost"`
	ProfitMargin             float64       `json:"profitMargin"`
	IngredientsCost          float64       `json:"ingredientsCost"`
	TotalCost                float64       `json:"totalCost"`
	SalePrice                float64       `json:"salePrice"`
	IngredientsCostFormatted string        `json:"ingredientsCostFormatted"`
	TotalCostFormatted       string        `json:"totalCostFormatted"`
	SalePriceFormatted       string        `json:"salePriceFormatted"`
	CreatedAt                *Timestamp    `json:"createdAt,omitempty"`
	UpdatedAt                *Timestamp    `json:"updatedAt,omitempty"`
}

// CalculateRecipeRequest previews a recipe without saving it.
type CalculateRecipeRequest struct {
	Recipe *RecipeInput `json:"recipe"`
}

type CalculateRecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

type SaveRecipeRequest struct {
	Recipe *RecipeInput `json:"recipe"`
}

type SaveRecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

type ListRecipesRequest struct{}

type ListRecipesResponse struct {
	// Recipes are newest first.
	Recipes []*Recipe `json:"recipes"`
}

type GetRecipeRequest struct {
	ID string `json:"id"`
}

type GetRecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

type DeleteRecipeRequest struct {
	ID string `json:"id"`
}

type DeleteRecipeResponse struct{}

// Unit is a row of the display-unit conversion table.
type Unit struct {
	Unit   string  `json:"unit"`
	Label  string  `json:"label"`
	Factor float64 `json:"factor"`
}

type ListUnitsRequest struct{}

type ListUnitsResponse struct {
	Units []*Unit `json:"units"`
}
