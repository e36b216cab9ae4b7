// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/docelucro/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another account.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique key (such as a user's email) is
	// already taken.
	ErrConflict = errors.New("record already exists")
)

// IngredientStore persists an account's ingredient catalog.
type IngredientStore interface {
	// ListIngredients returns the owner's ingredients in insertion order.
	ListIngredients(ctx context.Context, ownerID string) ([]models.Ingredient, error)

	// GetIngredient returns ErrNotFound if the ingredient does not exist.
	GetIngredient(ctx context.Context, ownerID, id string) (*models.Ingredient, error)

	// UpsertIngredient creates the ingredient when its ID is empty or unknown
	// and replaces it otherwise. ID, CreatedAt and UpdatedAt are filled in by
	// the store; an existing CreatedAt is never overwritten.
	UpsertIngredient(ctx context.Context, ing *models.Ingredient) error

	// DeleteIngredient removes the ingredient. Recipes that used it keep
	// their line-item snapshots.
	DeleteIngredient(ctx context.Context, ownerID, id string) error
}

// RecipeStore persists saved recipes.
type RecipeStore interface {
	// ListRecipes returns the owner's recipes, newest first.
	ListRecipes(ctx context.Context, ownerID string) ([]models.Recipe, error)

	// GetRecipe returns ErrNotFound if the recipe does not exist.
	GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error)

	// UpsertRecipe writes the whole recipe, items included, atomically.
	// The stored CreatedAt of an existing recipe is kept.
	UpsertRecipe(ctx context.Context, recipe *models.Recipe) error

	// DeleteRecipe removes the recipe and its items.
	DeleteRecipe(ctx context.Context, ownerID, id string) error
}

// UserStore persists accounts.
type UserStore interface {
	// CreateUser returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the full set of persistence operations.
// This abstraction allows swapping storage backends (SQLite, local files,
// PostgreSQL, S3) without changing the service layer.
type Store interface {
	IngredientStore
	RecipeStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
