package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage/storagetest"
)

func TestLocalStore(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	storagetest.Run(t, store)
}

func TestLocalStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ing := &models.Ingredient{OwnerID: "owner-1", Name: "Farinha", PackageQuantity: 1000, PackageUnit: models.PackageUnitGrams, Price: 5.5}
	if err := store.UpsertIngredient(ctx, ing); err != nil {
		t.Fatalf("UpsertIngredient failed: %v", err)
	}
	recipe := &models.Recipe{
		OwnerID: "owner-1",
		Name:    "Bolo",
		Items: []models.RecipeItem{{
			ID: "item-1", IngredientID: ing.ID, IngredientName: "Farinha",
			DisplayQuantity: 2, DisplayUnit: models.DisplayUnitCup, BaseQuantity: 480, Cost: 2.64,
		}},
		VariableCostsPercentage: 10,
		ProfitMargin:            100,
	}
	if err := store.UpsertRecipe(ctx, recipe); err != nil {
		t.Fatalf("UpsertRecipe failed: %v", err)
	}
	store.Close()

	for _, name := range []string{ingredientsFile, recipesFile} {
		if _, err := os.Stat(filepath.Join(dir, "owner-1", name)); err != nil {
			t.Errorf("expected %s on disk: %v", name, err)
		}
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := reopened.GetRecipe(ctx, "owner-1", recipe.ID)
	if err != nil {
		t.Fatalf("GetRecipe after reopen failed: %v", err)
	}
	if got.CreatedAt != recipe.CreatedAt || len(got.Items) != 1 || got.Items[0].Cost != 2.64 {
		t.Errorf("recipe after reopen = %+v", got)
	}

	// Ownership survives a restart.
	hijack := *ing
	hijack.OwnerID = "owner-2"
	if err := reopened.UpsertIngredient(ctx, &hijack); err == nil {
		t.Error("expected foreign upsert to fail after reopen")
	}
}

func TestLocalStore_RejectsPathOwner(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ing := &models.Ingredient{OwnerID: "../escape", Name: "x", PackageQuantity: 1, PackageUnit: models.PackageUnitGrams, Price: 1}
	if err := store.UpsertIngredient(context.Background(), ing); err == nil {
		t.Error("expected error for owner id with path separators")
	}
}
