// Package calculator holds the pricing arithmetic: unit conversion, per-item
// cost snapshots and recipe totals. Everything here is pure; values are kept at
// full float64 precision and only rounded when formatted for display.
package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/docelucro/internal/models"
)

// ItemCost is the snapshot taken when a line item is added to a recipe.
type ItemCost struct {
	BaseQuantity float64
	Cost         float64
}

// Parameters are the editable cost inputs of a recipe.
type Parameters struct {
	VariableCostsPercentage float64
	PackagingCost           float64
	ProfitMargin            float64
}

// DefaultParameters returns the parameters a new recipe starts with.
func DefaultParameters() Parameters {
	return Parameters{
		VariableCostsPercentage: models.DefaultVariableCostsPercentage,
		PackagingCost:           models.DefaultPackagingCost,
		ProfitMargin:            models.DefaultProfitMargin,
	}
}

// Validate rejects negative or non-numeric parameters.
func (p Parameters) Validate() error {
	if !nonNegative(p.VariableCostsPercentage) {
		return models.NewValidationError("variable_costs_percentage", "must be a number >= 0")
	}
	if !nonNegative(p.PackagingCost) {
		return models.NewValidationError("packaging_cost", "must be a number >= 0")
	}
	if !nonNegative(p.ProfitMargin) {
		return models.NewValidationError("profit_margin", "must be a number >= 0")
	}
	return nil
}

// Totals is the aggregate cost breakdown of a recipe.
type Totals struct {
	IngredientsCost float64
	TotalCost       float64
	SalePrice       float64
}

// Validate rejects totals that overflowed float64.
func (t Totals) Validate() error {
	if !finite(t.IngredientsCost) {
		return models.NewValidationError("items", "ingredient cost is too large")
	}
	if !finite(t.TotalCost) {
		return models.NewValidationError("total_cost", "is too large")
	}
	if !finite(t.SalePrice) {
		return models.NewValidationError("sale_price", "is too large")
	}
	return nil
}

// UnitPrice returns price per base unit of ing.
func UnitPrice(ing models.Ingredient) (float64, error) {
	if !finite(ing.PackageQuantity) || ing.PackageQuantity <= 0 {
		return 0, fmt.Errorf("%w: ingredient %s has package quantity %v", models.ErrInvalidIngredientData, ing.ID, ing.PackageQuantity)
	}
	if !finite(ing.Price) || ing.Price <= 0 {
		return 0, fmt.Errorf("%w: ingredient %s has price %v", models.ErrInvalidIngredientData, ing.ID, ing.Price)
	}
	return ing.Price / ing.PackageQuantity, nil
}

// CalculateItemCost computes the base quantity and cost of using
// displayQuantity of ing, measured in unit.
//
// Algorithm: cost = (price / packageQuantity) × (displayQuantity × factor(unit))
func CalculateItemCost(ing models.Ingredient, displayQuantity float64, unit models.DisplayUnit) (ItemCost, error) {
	if !finite(displayQuantity) || displayQuantity <= 0 {
		return ItemCost{}, models.NewValidationError("display_quantity", "must be greater than zero")
	}
	unitPrice, err := UnitPrice(ing)
	if err != nil {
		return ItemCost{}, err
	}
	base := Convert(displayQuantity, unit)
	cost := unitPrice * base
	if !finite(base) || !finite(cost) {
		return ItemCost{}, models.NewValidationError("display_quantity", "is too large")
	}
	return ItemCost{
		BaseQuantity: base,
		Cost:         cost,
	}, nil
}

// CalculateTotals aggregates the stored item snapshots.
//
// Order matters, each stage builds on the previous one:
//
//	ingredients = Σ item.Cost
//	total       = ingredients × (1 + variable%/100) + packaging
//	sale        = total × (1 + margin%/100)
//
// An empty item list is not an error here; saving such a recipe is rejected by
// validation instead.
func CalculateTotals(items []models.RecipeItem, p Parameters) Totals {
	var ingredients float64
	for _, item := range items {
		ingredients += item.Cost
	}
	total := ingredients*(1+p.VariableCostsPercentage/100) + p.PackagingCost
	return Totals{
		IngredientsCost: ingredients,
		TotalCost:       total,
		SalePrice:       total * (1 + p.ProfitMargin/100),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return finite(v) && v >= 0
}
