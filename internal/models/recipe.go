package models

// DisplayUnit is the unit a user picks when adding a line item. It refers to a
// row of the conversion table in the calculator package.
type DisplayUnit string

const (
	DisplayUnitOriginal   DisplayUnit = "original"
	DisplayUnitCup        DisplayUnit = "cup"
	DisplayUnitTablespoon DisplayUnit = "tablespoon"
	DisplayUnitTeaspoon   DisplayUnit = "teaspoon"
)

// Default cost parameters for a new recipe.
const (
	DefaultVariableCostsPercentage = 10.0
	DefaultPackagingCost           = 0.0
	DefaultProfitMargin            = 100.0
)

// Recipe is a saved cost breakdown.
type Recipe struct {
	// ID is the unique identifier for the recipe (UUID format).
	ID string `json:"id"`

	// OwnerID is the user that created the recipe.
	OwnerID string `json:"owner_id"`

	Name string `json:"name"`

	// CreatedAt is set once, on first save, and preserved across edits.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt changes on every save.
	UpdatedAt int64 `json:"updated_at"`

	// Items are kept in insertion order. The same ingredient may appear
	// more than once.
	Items []RecipeItem `json:"items"`

	// VariableCostsPercentage is overhead as a percent of ingredient cost.
	VariableCostsPercentage float64 `json:"variable_costs_percentage"`

	// PackagingCost is a flat amount added after variable costs.
	PackagingCost float64 `json:"packaging_cost"`

	// ProfitMargin is a percent applied over the fully loaded cost.
	ProfitMargin float64 `json:"profit_margin"`

	// TotalCost and SalePrice are snapshots taken at save time.
	TotalCost float64 `json:"total_cost"`
	SalePrice float64 `json:"sale_price"`
}

// RecipeItem is one line of a recipe.
type RecipeItem struct {
	// ID is the unique identifier for the line item (UUID format).
	ID string `json:"id"`

	// IngredientID references the catalog entry the snapshot was taken from.
	// The ingredient may no longer exist.
	IngredientID string `json:"ingredient_id"`

	// IngredientName is denormalized for display after catalog changes.
	IngredientName string `json:"ingredient_name"`

	// DisplayQuantity is the quantity as entered by the user.
	DisplayQuantity float64 `json:"display_quantity"`

	DisplayUnit DisplayUnit `json:"display_unit"`

	// BaseQuantity is DisplayQuantity converted to the ingredient's base unit.
	BaseQuantity float64 `json:"base_quantity"`

	// Cost is unit price × BaseQuantity at the time the item was added.
	Cost float64 `json:"cost"`
}
