// Package storagetest is a behavioral test suite shared by every
// storage.Store backend.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
)

// Run exercises store against the storage.Store contract. The store must be
// empty.
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Users", func(t *testing.T) { testUsers(ctx, t, store) })
	t.Run("Ingredients", func(t *testing.T) { testIngredients(ctx, t, store) })
	t.Run("Recipes", func(t *testing.T) { testRecipes(ctx, t, store) })
	t.Run("Ownership", func(t *testing.T) { testOwnership(ctx, t, store) })
}

// tick makes sure consecutive writes get distinct millisecond timestamps.
func tick() {
	time.Sleep(2 * time.Millisecond)
}

func newOwner() string {
	return uuid.New().String()
}

func testUsers(ctx context.Context, t *testing.T, store storage.Store) {
	email := "ana-" + uuid.New().String() + "@example.com"
	user := models.NewUser(email, "Ana", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.DisplayName != "Ana" || byEmail.PasswordHash != "hash" {
		t.Errorf("GetUserByEmail = %+v, want %+v", byEmail, user)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != email {
		t.Errorf("GetUserByID email = %q, want %q", byID.Email, email)
	}

	dup := models.NewUser(email, "Other", "hash2")
	if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate email: expected ErrConflict, got %v", err)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing email: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUserByID(ctx, uuid.New().String()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing id: expected ErrNotFound, got %v", err)
	}
}

func testIngredients(ctx context.Context, t *testing.T, store storage.Store) {
	owner := newOwner()

	names := []string{"Farinha", "Açúcar", "Ovo"}
	var created []models.Ingredient
	for _, name := range names {
		ing := &models.Ingredient{
			OwnerID:         owner,
			Name:            name,
			PackageQuantity: 1000,
			PackageUnit:     models.PackageUnitGrams,
			Price:           5.5,
		}
		if err := store.UpsertIngredient(ctx, ing); err != nil {
			t.Fatalf("UpsertIngredient(%s) failed: %v", name, err)
		}
		if ing.ID == "" || ing.CreatedAt == 0 {
			t.Fatalf("UpsertIngredient did not fill id and createdAt: %+v", ing)
		}
		created = append(created, *ing)
		tick()
	}

	list, err := store.ListIngredients(ctx, owner)
	if err != nil {
		t.Fatalf("ListIngredients failed: %v", err)
	}
	assertIngredientOrder(t, list, names)

	// Editing in place keeps id, createdAt and position.
	edited := created[0]
	edited.Name = "Farinha de trigo"
	edited.Price = 6.25
	edited.CreatedAt = 0
	if err := store.UpsertIngredient(ctx, &edited); err != nil {
		t.Fatalf("UpsertIngredient(edit) failed: %v", err)
	}
	if edited.CreatedAt != created[0].CreatedAt {
		t.Errorf("edit changed createdAt: %d -> %d", created[0].CreatedAt, edited.CreatedAt)
	}

	got, err := store.GetIngredient(ctx, owner, created[0].ID)
	if err != nil {
		t.Fatalf("GetIngredient failed: %v", err)
	}
	if got.Name != "Farinha de trigo" || got.Price != 6.25 || got.PackageUnit != models.PackageUnitGrams {
		t.Errorf("GetIngredient = %+v", got)
	}
	if got.CreatedAt != created[0].CreatedAt {
		t.Errorf("stored createdAt = %d, want %d", got.CreatedAt, created[0].CreatedAt)
	}

	list, err = store.ListIngredients(ctx, owner)
	if err != nil {
		t.Fatalf("ListIngredients failed: %v", err)
	}
	assertIngredientOrder(t, list, []string{"Farinha de trigo", "Açúcar", "Ovo"})

	if err := store.DeleteIngredient(ctx, owner, created[1].ID); err != nil {
		t.Fatalf("DeleteIngredient failed: %v", err)
	}
	if _, err := store.GetIngredient(ctx, owner, created[1].ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted ingredient: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteIngredient(ctx, owner, created[1].ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	empty, err := store.ListIngredients(ctx, newOwner())
	if err != nil {
		t.Fatalf("ListIngredients(empty) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("new owner should have no ingredients, got %d", len(empty))
	}
}

func assertIngredientOrder(t *testing.T, list []models.Ingredient, names []string) {
	t.Helper()
	if len(list) != len(names) {
		t.Fatalf("expected %d ingredients, got %d", len(names), len(list))
	}
	for i, name := range names {
		if list[i].Name != name {
			t.Errorf("ingredient %d = %q, want %q", i, list[i].Name, name)
		}
	}
}

func testRecipes(ctx context.Context, t *testing.T, store storage.Store) {
	owner := newOwner()

	flour := &models.Ingredient{OwnerID: owner, Name: "Farinha", PackageQuantity: 1000, PackageUnit: models.PackageUnitGrams, Price: 5.5}
	if err := store.UpsertIngredient(ctx, flour); err != nil {
		t.Fatalf("UpsertIngredient failed: %v", err)
	}

	item := models.RecipeItem{
		ID:              uuid.New().String(),
		IngredientID:    flour.ID,
		IngredientName:  flour.Name,
		DisplayQuantity: 2,
		DisplayUnit:     models.DisplayUnitCup,
		BaseQuantity:    480,
		Cost:            2.64,
	}
	first := &models.Recipe{
		OwnerID:                 owner,
		Name:                    "Bolo",
		Items:                   []models.RecipeItem{item},
		VariableCostsPercentage: 10,
		PackagingCost:           0,
		ProfitMargin:            100,
		TotalCost:               2.904,
		SalePrice:               5.808,
	}
	if err := store.UpsertRecipe(ctx, first); err != nil {
		t.Fatalf("UpsertRecipe failed: %v", err)
	}
	if first.ID == "" || first.CreatedAt == 0 {
		t.Fatalf("UpsertRecipe did not fill id and createdAt: %+v", first)
	}
	tick()

	dupItem := item
	dupItem.ID = uuid.New().String()
	second := &models.Recipe{
		OwnerID:      owner,
		Name:         "Pão",
		Items:        []models.RecipeItem{item, dupItem},
		ProfitMargin: 50,
	}
	if err := store.UpsertRecipe(ctx, second); err != nil {
		t.Fatalf("UpsertRecipe(second) failed: %v", err)
	}

	list, err := store.ListRecipes(ctx, owner)
	if err != nil {
		t.Fatalf("ListRecipes failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("ListRecipes should be newest first, got %+v", list)
	}
	if len(list[0].Items) != 2 || list[0].Items[0].ID != item.ID || list[0].Items[1].ID != dupItem.ID {
		t.Errorf("items of second recipe out of order: %+v", list[0].Items)
	}

	got, err := store.GetRecipe(ctx, owner, first.ID)
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}
	if got.Name != "Bolo" || got.TotalCost != 2.904 || got.SalePrice != 5.808 || got.VariableCostsPercentage != 10 {
		t.Errorf("GetRecipe = %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0] != item {
		t.Errorf("GetRecipe items = %+v, want %+v", got.Items, item)
	}

	// An edit keeps createdAt even when the caller sends another value.
	tick()
	edit := *got
	edit.Name = "Bolo de cenoura"
	edit.CreatedAt = 42
	edit.Items = nil
	if err := store.UpsertRecipe(ctx, &edit); err != nil {
		t.Fatalf("UpsertRecipe(edit) failed: %v", err)
	}
	if edit.CreatedAt != first.CreatedAt {
		t.Errorf("edit changed createdAt: %d -> %d", first.CreatedAt, edit.CreatedAt)
	}
	got, err = store.GetRecipe(ctx, owner, first.ID)
	if err != nil {
		t.Fatalf("GetRecipe after edit failed: %v", err)
	}
	if got.Name != "Bolo de cenoura" || got.CreatedAt != first.CreatedAt || len(got.Items) != 0 {
		t.Errorf("edited recipe = %+v", got)
	}

	list, err = store.ListRecipes(ctx, owner)
	if err != nil {
		t.Fatalf("ListRecipes failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("editing must not reorder recipes")
	}

	// Deleting the ingredient leaves the snapshots alone.
	if err := store.DeleteIngredient(ctx, owner, flour.ID); err != nil {
		t.Fatalf("DeleteIngredient failed: %v", err)
	}
	got, err = store.GetRecipe(ctx, owner, second.ID)
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Cost != 2.64 || got.Items[0].IngredientName != "Farinha" {
		t.Errorf("snapshots changed after ingredient deletion: %+v", got.Items)
	}

	if err := store.DeleteRecipe(ctx, owner, second.ID); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if _, err := store.GetRecipe(ctx, owner, second.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted recipe: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteRecipe(ctx, owner, second.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
	list, err = store.ListRecipes(ctx, owner)
	if err != nil {
		t.Fatalf("ListRecipes failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != first.ID {
		t.Errorf("ListRecipes after delete = %+v", list)
	}
}

func testOwnership(ctx context.Context, t *testing.T, store storage.Store) {
	alice, bob := newOwner(), newOwner()

	ing := &models.Ingredient{OwnerID: alice, Name: "Leite", PackageQuantity: 1000, PackageUnit: models.PackageUnitMilliliters, Price: 4}
	if err := store.UpsertIngredient(ctx, ing); err != nil {
		t.Fatalf("UpsertIngredient failed: %v", err)
	}
	recipe := &models.Recipe{OwnerID: alice, Name: "Pudim"}
	if err := store.UpsertRecipe(ctx, recipe); err != nil {
		t.Fatalf("UpsertRecipe failed: %v", err)
	}

	if _, err := store.GetIngredient(ctx, bob, ing.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign ingredient get: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteIngredient(ctx, bob, ing.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign ingredient delete: expected ErrNotFound, got %v", err)
	}
	hijack := *ing
	hijack.OwnerID = bob
	hijack.Name = "stolen"
	if err := store.UpsertIngredient(ctx, &hijack); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign ingredient upsert: expected ErrNotFound, got %v", err)
	}

	if _, err := store.GetRecipe(ctx, bob, recipe.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign recipe get: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteRecipe(ctx, bob, recipe.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign recipe delete: expected ErrNotFound, got %v", err)
	}
	stolen := *recipe
	stolen.OwnerID = bob
	if err := store.UpsertRecipe(ctx, &stolen); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign recipe upsert: expected ErrNotFound, got %v", err)
	}

	got, err := store.GetIngredient(ctx, alice, ing.ID)
	if err != nil {
		t.Fatalf("GetIngredient failed: %v", err)
	}
	if got.Name != "Leite" {
		t.Errorf("ingredient was modified by another owner: %+v", got)
	}
	bobs, err := store.ListRecipes(ctx, bob)
	if err != nil {
		t.Fatalf("ListRecipes failed: %v", err)
	}
	if len(bobs) != 0 {
		t.Errorf("bob sees %d recipes", len(bobs))
	}
}
