package models

// PackageUnit is the base unit an ingredient is bought and priced in.
type PackageUnit string

const (
	// PackageUnitGrams is mass in grams.
	PackageUnitGrams PackageUnit = "g"
	// PackageUnitMilliliters is volume in milliliters.
	PackageUnitMilliliters PackageUnit = "ml"
	// PackageUnitCount is a count of discrete units.
	PackageUnitCount PackageUnit = "un"
)

// Valid reports whether u is one of the known package units.
func (u PackageUnit) Valid() bool {
	switch u {
	case PackageUnitGrams, PackageUnitMilliliters, PackageUnitCount:
		return true
	}
	return false
}

// Ingredient is one entry of an account's ingredient catalog.
type Ingredient struct {
	// ID is the unique identifier for the ingredient (UUID format).
	ID string `json:"id"`

	// OwnerID is the user that registered the ingredient.
	OwnerID string `json:"owner_id"`

	// Name is the display name (e.g., "Farinha de trigo").
	Name string `json:"name"`

	// PackageQuantity is the amount contained in one purchased package,
	// expressed in PackageUnit.
	PackageQuantity float64 `json:"package_quantity"`

	// PackageUnit is the base unit of PackageQuantity and of the unit price.
	PackageUnit PackageUnit `json:"package_unit"`

	// Price is the amount paid for one package.
	Price float64 `json:"price"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
