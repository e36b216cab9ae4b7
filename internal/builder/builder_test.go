package builder

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/suggest"
)

func testCatalog() []models.Ingredient {
	return []models.Ingredient{
		{ID: "flour", Name: "Farinha", PackageQuantity: 1000, PackageUnit: models.PackageUnitGrams, Price: 5.50},
		{ID: "milk", Name: "Leite", PackageQuantity: 1000, PackageUnit: models.PackageUnitMilliliters, Price: 4},
		{ID: "egg", Name: "Ovo", PackageQuantity: 12, PackageUnit: models.PackageUnitCount, Price: 12},
		{ID: "broken", Name: "Broken", PackageQuantity: 0, PackageUnit: models.PackageUnitGrams, Price: 3},
	}
}

func TestNew_Defaults(t *testing.T) {
	d := New()
	if d.Parameters.VariableCostsPercentage != 10 || d.Parameters.PackagingCost != 0 || d.Parameters.ProfitMargin != 100 {
		t.Errorf("unexpected defaults: %+v", d.Parameters)
	}
	if len(d.Items) != 0 || d.ID != "" {
		t.Errorf("new draft should be empty: %+v", d)
	}
}

func TestAddItem(t *testing.T) {
	catalog := CatalogFrom(testCatalog())

	tests := []struct {
		name         string
		ingredientID string
		quantity     float64
		unit         models.DisplayUnit
		wantCost     float64
		wantValid    bool
		wantErr      error
	}{
		{name: "two cups of flour", ingredientID: "flour", quantity: 2, unit: models.DisplayUnitCup, wantCost: 2.64},
		{name: "eggs by count", ingredientID: "egg", quantity: 3, unit: models.DisplayUnitOriginal, wantCost: 3},
		{name: "unknown ingredient", ingredientID: "sugar", quantity: 1, unit: models.DisplayUnitOriginal, wantValid: true},
		{name: "zero quantity", ingredientID: "flour", quantity: 0, unit: models.DisplayUnitCup, wantValid: true},
		{name: "eggs by the cup", ingredientID: "egg", quantity: 1, unit: models.DisplayUnitCup, wantValid: true},
		{name: "corrupted ingredient", ingredientID: "broken", quantity: 1, unit: models.DisplayUnitOriginal, wantErr: models.ErrInvalidIngredientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			item, err := d.AddItem(catalog, tt.ingredientID, tt.quantity, tt.unit)
			switch {
			case tt.wantValid:
				if !models.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if len(d.Items) != 0 {
					t.Errorf("rejected item was added")
				}
				return
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			case err != nil:
				t.Fatalf("AddItem failed: %v", err)
			}

			if item.ID == "" {
				t.Error("item has no id")
			}
			if math.Abs(item.Cost-tt.wantCost) > 1e-9 {
				t.Errorf("Cost = %v, want %v", item.Cost, tt.wantCost)
			}
			if len(d.Items) != 1 || d.Items[0] != item {
				t.Errorf("item not appended: %+v", d.Items)
			}
		})
	}
}

func TestDraft_SnapshotSurvivesCatalogChanges(t *testing.T) {
	ings := testCatalog()
	d := New()
	d.Name = "Bolo"
	if _, err := d.AddItem(CatalogFrom(ings), "flour", 2, models.DisplayUnitCup); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	// Price change and deletion of the ingredient.
	ings[0].Price = 100
	_ = CatalogFrom(ings[1:])

	r, err := d.Recipe("owner", 1000)
	if err != nil {
		t.Fatalf("Recipe failed: %v", err)
	}
	if math.Abs(r.Items[0].Cost-2.64) > 1e-9 {
		t.Errorf("snapshot cost changed: %v", r.Items[0].Cost)
	}
	if r.Items[0].IngredientName != "Farinha" {
		t.Errorf("snapshot name changed: %q", r.Items[0].IngredientName)
	}

	reopened := FromRecipe(r)
	if got := reopened.Totals().IngredientsCost; math.Abs(got-2.64) > 1e-9 {
		t.Errorf("reopened ingredients cost = %v, want 2.64", got)
	}
}

func TestDraft_DuplicatesAndRemoval(t *testing.T) {
	catalog := CatalogFrom(testCatalog())
	d := New()
	first, _ := d.AddItem(catalog, "milk", 1, models.DisplayUnitCup)
	second, _ := d.AddItem(catalog, "milk", 1, models.DisplayUnitCup)

	if first.ID == second.ID {
		t.Fatal("duplicate lines must have distinct ids")
	}
	if got := d.Totals().IngredientsCost; math.Abs(got-1.92) > 1e-9 {
		t.Errorf("ingredients cost = %v, want 1.92", got)
	}

	if !d.RemoveItem(first.ID) {
		t.Fatal("RemoveItem returned false")
	}
	if d.RemoveItem(first.ID) {
		t.Error("second RemoveItem should return false")
	}
	if len(d.Items) != 1 || d.Items[0].ID != second.ID {
		t.Errorf("wrong items left: %+v", d.Items)
	}
}

func TestDraft_Validate(t *testing.T) {
	catalog := CatalogFrom(testCatalog())

	tests := []struct {
		name  string
		setup func(d *Draft)
		field string
	}{
		{"missing name", func(d *Draft) { _, _ = d.AddItem(catalog, "flour", 1, models.DisplayUnitCup) }, "name"},
		{"no items", func(d *Draft) { d.Name = "Bolo" }, "items"},
		{"negative margin", func(d *Draft) {
			d.Name = "Bolo"
			_, _ = d.AddItem(catalog, "flour", 1, models.DisplayUnitCup)
			d.Parameters.ProfitMargin = -5
		}, "profit_margin"},
		{"sale price overflows", func(d *Draft) {
			d.Name = "Bolo"
			_, _ = d.AddItem(catalog, "flour", 1, models.DisplayUnitCup)
			d.Parameters.PackagingCost = 1e300
			d.Parameters.ProfitMargin = 1e308
		}, "sale_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			tt.setup(d)
			err := d.Validate()
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestDraft_Recipe(t *testing.T) {
	catalog := CatalogFrom(testCatalog())
	d := New()
	d.Name = "  Bolo  "
	d.Parameters.PackagingCost = 5
	if _, err := d.AddItem(catalog, "flour", 2, models.DisplayUnitCup); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	r, err := d.Recipe("owner-1", 1000)
	if err != nil {
		t.Fatalf("Recipe failed: %v", err)
	}
	if r.ID == "" || r.CreatedAt != 1000 || r.UpdatedAt != 1000 || r.OwnerID != "owner-1" {
		t.Errorf("unexpected identity fields: %+v", r)
	}
	if r.Name != "Bolo" {
		t.Errorf("Name = %q, want trimmed", r.Name)
	}
	// 2.64 * 1.10 + 5 = 7.904; * 2 = 15.808
	if math.Abs(r.TotalCost-7.904) > 1e-9 || math.Abs(r.SalePrice-15.808) > 1e-9 {
		t.Errorf("totals = %v / %v", r.TotalCost, r.SalePrice)
	}

	edit := FromRecipe(r)
	edit.Parameters.ProfitMargin = 50
	updated, err := edit.Recipe("owner-1", 2000)
	if err != nil {
		t.Fatalf("Recipe on edit failed: %v", err)
	}
	if updated.ID != r.ID || updated.CreatedAt != 1000 || updated.UpdatedAt != 2000 {
		t.Errorf("edit must keep id and createdAt: %+v", updated)
	}
	if math.Abs(updated.SalePrice-7.904*1.5) > 1e-9 {
		t.Errorf("SalePrice = %v", updated.SalePrice)
	}
	if r.ProfitMargin != 100 {
		t.Error("editing the draft changed the original recipe")
	}
}

func TestDraft_ApplySuggestion(t *testing.T) {
	d := New()
	d.ApplySuggestion(suggest.SuggestedRecipe{
		RecipeName:  "Brigadeiro",
		Ingredients: []suggest.SuggestedIngredient{{Name: "Leite condensado", Quantity: 1, Unit: "lata"}},
	})
	if d.Name != "Brigadeiro" {
		t.Errorf("Name = %q", d.Name)
	}
	if len(d.Items) != 0 {
		t.Errorf("suggested ingredients must not become items: %+v", d.Items)
	}
}
