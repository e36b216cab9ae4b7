// Package builder holds the editable state of a recipe between edits.
//
// A Draft is what the recipe form works on: a name, the line items with
// their cost snapshots and the cost parameters. Every change is followed by
// calculator.CalculateTotals on the current draft; nothing is cached.
package builder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/docelucro/internal/calculator"
	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/suggest"
)

// Catalog looks up ingredients by id.
type Catalog interface {
	Ingredient(id string) (models.Ingredient, bool)
}

type catalogMap map[string]models.Ingredient

func (c catalogMap) Ingredient(id string) (models.Ingredient, bool) {
	ing, ok := c[id]
	return ing, ok
}

// CatalogFrom indexes a list of ingredients by id.
func CatalogFrom(ingredients []models.Ingredient) Catalog {
	c := make(catalogMap, len(ingredients))
	for _, ing := range ingredients {
		c[ing.ID] = ing
	}
	return c
}

// Draft is a recipe being edited.
type Draft struct {
	// ID is empty until the recipe has been saved once.
	ID         string
	Name       string
	CreatedAt  int64
	Items      []models.RecipeItem
	Parameters calculator.Parameters
}

// New returns an empty draft with the default cost parameters.
func New() *Draft {
	return &Draft{Parameters: calculator.DefaultParameters()}
}

// FromRecipe opens a saved recipe for editing. Items are copied so the
// draft can be changed without touching r.
func FromRecipe(r *models.Recipe) *Draft {
	items := make([]models.RecipeItem, len(r.Items))
	copy(items, r.Items)
	return &Draft{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Items:     items,
		Parameters: calculator.Parameters{
			VariableCostsPercentage: r.VariableCostsPercentage,
			PackagingCost:           r.PackagingCost,
			ProfitMargin:            r.ProfitMargin,
		},
	}
}

// AddItem prices quantity of the ingredient in unit and appends the line.
// The cost is computed once here from the current catalog entry.
func (d *Draft) AddItem(catalog Catalog, ingredientID string, quantity float64, unit models.DisplayUnit) (models.RecipeItem, error) {
	ing, ok := catalog.Ingredient(ingredientID)
	if !ok {
		return models.RecipeItem{}, models.NewValidationError("ingredient_id", "ingredient %q not found", ingredientID)
	}
	// Kitchen measures only make sense for mass or volume.
	if ing.PackageUnit == models.PackageUnitCount && unit != models.DisplayUnitOriginal {
		return models.RecipeItem{}, models.NewValidationError("display_unit", "%s is counted in units and cannot be measured in %s", ing.Name, unit)
	}

	cost, err := calculator.CalculateItemCost(ing, quantity, unit)
	if err != nil {
		return models.RecipeItem{}, err
	}

	item := models.RecipeItem{
		ID:              uuid.New().String(),
		IngredientID:    ing.ID,
		IngredientName:  ing.Name,
		DisplayQuantity: quantity,
		DisplayUnit:     unit,
		BaseQuantity:    cost.BaseQuantity,
		Cost:            cost.Cost,
	}
	d.Items = append(d.Items, item)
	return item, nil
}

// KeepItem appends an item that was priced earlier, snapshot unchanged.
func (d *Draft) KeepItem(item models.RecipeItem) {
	d.Items = append(d.Items, item)
}

// Item returns the line item with the given id.
func (d *Draft) Item(id string) (models.RecipeItem, bool) {
	for _, item := range d.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.RecipeItem{}, false
}

// RemoveItem drops the line item with the given id. It reports whether an
// item was removed.
func (d *Draft) RemoveItem(id string) bool {
	for i, item := range d.Items {
		if item.ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return true
		}
	}
	return false
}

// ApplySuggestion pre-fills the recipe name from a suggestion. Suggested
// ingredients are informational and are not added as items.
func (d *Draft) ApplySuggestion(s suggest.SuggestedRecipe) {
	d.Name = s.RecipeName
}

// Totals recomputes the cost breakdown of the draft.
func (d *Draft) Totals() calculator.Totals {
	return calculator.CalculateTotals(d.Items, d.Parameters)
}

// Validate checks the draft can be saved.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return models.NewValidationError("name", "recipe name is required")
	}
	if len(d.Items) == 0 {
		return models.NewValidationError("items", "add at least one ingredient")
	}
	if err := d.Parameters.Validate(); err != nil {
		return err
	}
	return d.Totals().Validate()
}

// Recipe validates the draft and returns the recipe to persist. A draft
// that was never saved gets a new id and createdAt = now; otherwise both are
// carried over unchanged.
func (d *Draft) Recipe(ownerID string, now int64) (*models.Recipe, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	for i, item := range d.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("item %d has no id", i)
		}
	}

	id := d.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := d.CreatedAt
	if createdAt == 0 {
		createdAt = now
	}

	totals := d.Totals()
	items := make([]models.RecipeItem, len(d.Items))
	copy(items, d.Items)
	return &models.Recipe{
		ID:                      id,
		OwnerID:                 ownerID,
		Name:                    strings.TrimSpace(d.Name),
		CreatedAt:               createdAt,
		UpdatedAt:               now,
		Items:                   items,
		VariableCostsPercentage: d.Parameters.VariableCostsPercentage,
		PackagingCost:           d.Parameters.PackagingCost,
		ProfitMargin:            d.Parameters.ProfitMargin,
		TotalCost:               totals.TotalCost,
		SalePrice:               totals.SalePrice,
	}, nil
}
