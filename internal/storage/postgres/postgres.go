// Package postgres implements storage.Store as JSONB documents in
// PostgreSQL. Each ingredient and recipe is one row keyed by (kind, id) and
// scoped by owner; the payload is the JSON encoding of the model.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const (
	kindIngredient = "ingredient"
	kindRecipe     = "recipe"

	uniqueViolation = "23505"
)

const schema = `
CREATE TABLE IF NOT EXISTS docelucro_users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS docelucro_documents (
	kind TEXT NOT NULL,
	id TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	seq BIGSERIAL,
	payload JSONB NOT NULL,
	PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_docelucro_documents_owner
	ON docelucro_documents (owner_id, kind, created_at, seq);
`

// Store is a PostgreSQL document store.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, checks the connection and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func now() int64 {
	return time.Now().UnixMilli()
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		"INSERT INTO docelucro_users (id, email, payload) VALUES ($1, $2, $3)",
		user.ID, user.Email, payload,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("email %s: %w", user.Email, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var payload []byte
	// column is one of two constants above.
	err := s.pool.QueryRow(ctx,
		"SELECT payload FROM docelucro_users WHERE "+column+" = $1",
		value,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("user", value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// ---------------------------------------------------------------------------
// Ingredients
// ---------------------------------------------------------------------------

func (s *Store) ListIngredients(ctx context.Context, ownerID string) ([]models.Ingredient, error) {
	out := []models.Ingredient{}
	err := s.list(ctx, ownerID, kindIngredient, "ASC", func(payload []byte) error {
		var ing models.Ingredient
		if err := json.Unmarshal(payload, &ing); err != nil {
			return err
		}
		out = append(out, ing)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return out, nil
}

func (s *Store) GetIngredient(ctx context.Context, ownerID, id string) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.get(ctx, ownerID, kindIngredient, id, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

func (s *Store) UpsertIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing.ID == "" {
		ing.ID = uuid.New().String()
	}
	ing.UpdatedAt = now()
	return s.upsert(ctx, ing.OwnerID, kindIngredient, ing.ID, &ing.CreatedAt, ing.UpdatedAt, func() ([]byte, error) {
		return json.Marshal(ing)
	})
}

func (s *Store) DeleteIngredient(ctx context.Context, ownerID, id string) error {
	return s.delete(ctx, ownerID, kindIngredient, id)
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

func (s *Store) ListRecipes(ctx context.Context, ownerID string) ([]models.Recipe, error) {
	out := []models.Recipe{}
	err := s.list(ctx, ownerID, kindRecipe, "DESC", func(payload []byte) error {
		var r models.Recipe
		if err := json.Unmarshal(payload, &r); err != nil {
			return err
		}
		if r.Items == nil {
			r.Items = []models.RecipeItem{}
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return out, nil
}

func (s *Store) GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.get(ctx, ownerID, kindRecipe, id, &r); err != nil {
		return nil, err
	}
	if r.Items == nil {
		r.Items = []models.RecipeItem{}
	}
	return &r, nil
}

// UpsertRecipe stores the recipe with its items as one document, so the
// write is atomic.
func (s *Store) UpsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	for i := range recipe.Items {
		if recipe.Items[i].ID == "" {
			recipe.Items[i].ID = uuid.New().String()
		}
	}
	recipe.UpdatedAt = now()
	return s.upsert(ctx, recipe.OwnerID, kindRecipe, recipe.ID, &recipe.CreatedAt, recipe.UpdatedAt, func() ([]byte, error) {
		return json.Marshal(recipe)
	})
}

func (s *Store) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	return s.delete(ctx, ownerID, kindRecipe, id)
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

func (s *Store) list(ctx context.Context, ownerID, kind, order string, fn func(payload []byte) error) error {
	rows, err := s.pool.Query(ctx,
		"SELECT payload FROM docelucro_documents WHERE owner_id = $1 AND kind = $2 ORDER BY created_at "+order+", seq "+order,
		ownerID, kind,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return err
		}
		if err := fn(payload); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) get(ctx context.Context, ownerID, kind, id string, v any) error {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		"SELECT payload FROM docelucro_documents WHERE kind = $1 AND id = $2 AND owner_id = $3",
		kind, id, ownerID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(kind, id)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return nil
}

// upsert writes a document in a transaction. The stored createdAt of an
// existing document is copied into *createdAt before encode is called, so
// the payload always carries the original value.
func (s *Store) upsert(ctx context.Context, ownerID, kind, id string, createdAt *int64, updatedAt int64, encode func() ([]byte, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var storedOwner string
	var storedCreatedAt int64
	err = tx.QueryRow(ctx,
		"SELECT owner_id, created_at FROM docelucro_documents WHERE kind = $1 AND id = $2 FOR UPDATE",
		kind, id,
	).Scan(&storedOwner, &storedCreatedAt)
	exists := true
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		exists = false
		if *createdAt == 0 {
			*createdAt = updatedAt
		}
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", kind, err)
	case storedOwner != ownerID:
		return notFound(kind, id)
	default:
		*createdAt = storedCreatedAt
	}

	payload, err := encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	if exists {
		_, err = tx.Exec(ctx,
			"UPDATE docelucro_documents SET payload = $1 WHERE kind = $2 AND id = $3",
			payload, kind, id,
		)
	} else {
		_, err = tx.Exec(ctx,
			"INSERT INTO docelucro_documents (kind, id, owner_id, created_at, payload) VALUES ($1, $2, $3, $4, $5)",
			kind, id, ownerID, *createdAt, payload,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, ownerID, kind, id string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM docelucro_documents WHERE kind = $1 AND id = $2 AND owner_id = $3",
		kind, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(kind, id)
	}
	return nil
}
