package api

// Ingredient is a catalog entry with its derived prices.
type Ingredient struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PackageQuantity float64 `json:"packageQuantity"`
	// PackageUnit is "g", "ml" or "un".
	PackageUnit    string     `json:"packageUnit"`
	Price          float64    `json:"price"`
	PriceFormatted string     `json:"priceFormatted"`
	UnitPrice      float64    `json:"unitPrice"`
	CreatedAt      *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt      *Timestamp `json:"updatedAt,omitempty"`
}

type ListIngredientsRequest struct{}

type ListIngredientsResponse struct {
	Ingredients []*Ingredient `json:"ingredients"`
}

// UpsertIngredientRequest creates an ingredient when ID is empty and edits
// it otherwise. When PriceText is set it takes precedence over Price and is
// read as BRL currency text ("R$ 1.234,56").
type UpsertIngredientRequest struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	PackageQuantity float64 `json:"packageQuantity"`
	PackageUnit     string  `json:"packageUnit"`
	Price           float64 `json:"price,omitempty"`
	PriceText       string  `json:"priceText,omitempty"`
}

type UpsertIngredientResponse struct {
	Ingredient *Ingredient `json:"ingredient"`
}

type DeleteIngredientRequest struct {
	ID string `json:"id"`
}

type DeleteIngredientResponse struct{}
