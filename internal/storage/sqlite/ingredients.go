package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/docelucro/internal/models"
)

const selectIngredient = `
	SELECT id, owner_id, name, package_quantity, package_unit, price, created_at, updated_at
	FROM ingredients
`

// ListIngredients returns the owner's catalog in insertion order.
func (s *SQLiteStore) ListIngredients(ctx context.Context, ownerID string) ([]models.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		selectIngredient+"WHERE owner_id = ? ORDER BY created_at, rowid",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := scanIngredient(rows, &ing); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredient retrieves one ingredient of the owner.
func (s *SQLiteStore) GetIngredient(ctx context.Context, ownerID, id string) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := scanIngredient(s.db.QueryRowContext(ctx,
		selectIngredient+"WHERE id = ? AND owner_id = ?",
		id, ownerID,
	), &ing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("ingredient", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

// UpsertIngredient inserts or replaces an ingredient. An id owned by another
// account is reported as not found.
func (s *SQLiteStore) UpsertIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing.ID == "" {
		ing.ID = uuid.New().String()
	}
	ts := now()
	if ing.CreatedAt == 0 {
		ing.CreatedAt = ts
	}
	ing.UpdatedAt = ts

	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ingredients (id, owner_id, name, package_quantity, package_unit, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			package_quantity = excluded.package_quantity,
			package_unit = excluded.package_unit,
			price = excluded.price,
			updated_at = excluded.updated_at
		WHERE ingredients.owner_id = excluded.owner_id
		RETURNING created_at`,
		ing.ID, ing.OwnerID, ing.Name, ing.PackageQuantity, string(ing.PackageUnit), ing.Price,
		ing.CreatedAt, ing.UpdatedAt,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("ingredient", ing.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert ingredient: %w", err)
	}
	ing.CreatedAt = createdAt
	return nil
}

// DeleteIngredient removes an ingredient. Recipe items are left untouched.
func (s *SQLiteStore) DeleteIngredient(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM ingredients WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("ingredient", id)
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row scanner, ing *models.Ingredient) error {
	var unit string
	err := row.Scan(
		&ing.ID, &ing.OwnerID, &ing.Name, &ing.PackageQuantity, &unit, &ing.Price,
		&ing.CreatedAt, &ing.UpdatedAt,
	)
	ing.PackageUnit = models.PackageUnit(unit)
	return err
}
