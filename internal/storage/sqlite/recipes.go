package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/docelucro/internal/models"
)

const selectRecipe = `
	SELECT id, owner_id, name, variable_costs_percentage, packaging_cost, profit_margin,
	       total_cost, sale_price, created_at, updated_at
	FROM recipes
`

// ListRecipes returns the owner's recipes, newest first, with their items.
func (s *SQLiteStore) ListRecipes(ctx context.Context, ownerID string) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		selectRecipe+"WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := []models.Recipe{}
	index := make(map[string]int)
	for rows.Next() {
		var r models.Recipe
		if err := scanRecipe(rows, &r); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		r.Items = []models.RecipeItem{}
		index[r.ID] = len(recipes)
		recipes = append(recipes, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	if len(recipes) == 0 {
		return recipes, nil
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT ri.recipe_id, ri.id, ri.ingredient_id, ri.ingredient_name, ri.display_quantity,
		       ri.display_unit, ri.base_quantity, ri.cost
		FROM recipe_items ri
		JOIN recipes r ON r.id = ri.recipe_id
		WHERE r.owner_id = ?
		ORDER BY ri.recipe_id, ri.position`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var recipeID string
		var item models.RecipeItem
		if err := scanItem(itemRows, &recipeID, &item); err != nil {
			return nil, fmt.Errorf("failed to scan recipe item: %w", err)
		}
		if i, ok := index[recipeID]; ok {
			recipes[i].Items = append(recipes[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe items: %w", err)
	}
	return recipes, nil
}

// GetRecipe retrieves one recipe with its items.
func (s *SQLiteStore) GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	var r models.Recipe
	err := scanRecipe(s.db.QueryRowContext(ctx,
		selectRecipe+"WHERE id = ? AND owner_id = ?",
		id, ownerID,
	), &r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("recipe", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id, id, ingredient_id, ingredient_name, display_quantity,
		       display_unit, base_quantity, cost
		FROM recipe_items
		WHERE recipe_id = ?
		ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe items: %w", err)
	}
	defer rows.Close()

	r.Items = []models.RecipeItem{}
	for rows.Next() {
		var recipeID string
		var item models.RecipeItem
		if err := scanItem(rows, &recipeID, &item); err != nil {
			return nil, fmt.Errorf("failed to scan recipe item: %w", err)
		}
		r.Items = append(r.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe items: %w", err)
	}
	return &r, nil
}

// UpsertRecipe replaces the recipe row and all of its items in one
// transaction.
func (s *SQLiteStore) UpsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	ts := now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID string
	var createdAt int64
	err = tx.QueryRowContext(ctx,
		"SELECT owner_id, created_at FROM recipes WHERE id = ?",
		recipe.ID,
	).Scan(&ownerID, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if recipe.CreatedAt == 0 {
			recipe.CreatedAt = ts
		}
	case err != nil:
		return fmt.Errorf("failed to read recipe: %w", err)
	case ownerID != recipe.OwnerID:
		return notFound("recipe", recipe.ID)
	default:
		recipe.CreatedAt = createdAt
	}
	recipe.UpdatedAt = ts

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (id, owner_id, name, variable_costs_percentage, packaging_cost, profit_margin,
		                     total_cost, sale_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			variable_costs_percentage = excluded.variable_costs_percentage,
			packaging_cost = excluded.packaging_cost,
			profit_margin = excluded.profit_margin,
			total_cost = excluded.total_cost,
			sale_price = excluded.sale_price,
			updated_at = excluded.updated_at`,
		recipe.ID, recipe.OwnerID, recipe.Name, recipe.VariableCostsPercentage, recipe.PackagingCost,
		recipe.ProfitMargin, recipe.TotalCost, recipe.SalePrice, recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert recipe: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_items WHERE recipe_id = ?", recipe.ID); err != nil {
		return fmt.Errorf("failed to clear recipe items: %w", err)
	}

	for i := range recipe.Items {
		item := &recipe.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipe_items (recipe_id, position, id, ingredient_id, ingredient_name,
			                          display_quantity, display_unit, base_quantity, cost)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			recipe.ID, i, item.ID, item.IngredientID, item.IngredientName,
			item.DisplayQuantity, string(item.DisplayUnit), item.BaseQuantity, item.Cost,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recipe item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteRecipe removes a recipe; its items go with it.
func (s *SQLiteStore) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM recipes WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("recipe", id)
	}
	return nil
}

func scanRecipe(row scanner, r *models.Recipe) error {
	return row.Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.VariableCostsPercentage, &r.PackagingCost, &r.ProfitMargin,
		&r.TotalCost, &r.SalePrice, &r.CreatedAt, &r.UpdatedAt,
	)
}

func scanItem(row scanner, recipeID *string, item *models.RecipeItem) error {
	var unit string
	err := row.Scan(
		recipeID, &item.ID, &item.IngredientID, &item.IngredientName, &item.DisplayQuantity,
		&unit, &item.BaseQuantity, &item.Cost,
	)
	item.DisplayUnit = models.DisplayUnit(unit)
	return err
}
