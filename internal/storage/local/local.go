// Package local implements storage.Store on msgpack files in a directory,
// for single-device installs with no database.
//
// Layout:
//
//	<dir>/users.msgpack
//	<dir>/<owner>/docelucro_insumos.msgpack   ingredients, insertion order
//	<dir>/<owner>/docelucro_receitas.msgpack  recipes, newest first
//
// Everything is loaded into memory on Open and written through on every
// change, one file per write.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
)

const (
	usersFile       = "users.msgpack"
	ingredientsFile = "docelucro_insumos.msgpack"
	recipesFile     = "docelucro_receitas.msgpack"
)

var _ storage.Store = (*Store)(nil)

type account struct {
	ingredients []ingredientRecord
	recipes     []recipeRecord
}

// Store is a file-backed storage.Store. It is safe for concurrent use
// within one process.
type Store struct {
	dir string

	mu       sync.RWMutex
	users    []userRecord
	accounts map[string]*account
	// owners maps "ingredient/<id>" and "recipe/<id>" to the owning account.
	owners map[string]string
}

// Open loads every account found under dir, creating dir if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{
		dir:      dir,
		accounts: make(map[string]*account),
		owners:   make(map[string]string),
	}

	if err := readFile(filepath.Join(dir, usersFile), &s.users); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		owner := e.Name()
		acc := &account{}
		if err := readFile(filepath.Join(dir, owner, ingredientsFile), &acc.ingredients); err != nil {
			return nil, err
		}
		if err := readFile(filepath.Join(dir, owner, recipesFile), &acc.recipes); err != nil {
			return nil, err
		}
		for _, ing := range acc.ingredients {
			s.owners[ingredientKey(ing.ID)] = owner
		}
		for _, r := range acc.recipes {
			s.owners[recipeKey(r.ID)] = owner
		}
		s.accounts[owner] = acc
	}
	return s, nil
}

// Close is a no-op; every write is already on disk.
func (s *Store) Close() error {
	return nil
}

func ingredientKey(id string) string { return "ingredient/" + id }
func recipeKey(id string) string     { return "recipe/" + id }

func now() int64 {
	return time.Now().UnixMilli()
}

// account returns the owner's data, creating it when create is set.
func (s *Store) account(ownerID string, create bool) *account {
	acc, ok := s.accounts[ownerID]
	if !ok && create {
		acc = &account{}
		s.accounts[ownerID] = acc
	}
	return acc
}

func validOwner(ownerID string) error {
	if ownerID == "" || ownerID == "." || ownerID == ".." || strings.ContainsAny(ownerID, `/\`) {
		return fmt.Errorf("invalid owner id %q", ownerID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) || u.ID == user.ID {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrConflict)
		}
	}
	users := append(s.users[:len(s.users):len(s.users)], newUserRecord(user))
	if err := writeFile(filepath.Join(s.dir, usersFile), users); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.users = users
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u.model(), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.model(), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Ingredients
// ---------------------------------------------------------------------------

func (s *Store) ListIngredients(ctx context.Context, ownerID string) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Ingredient{}
	if acc := s.account(ownerID, false); acc != nil {
		for _, r := range acc.ingredients {
			out = append(out, r.model(ownerID))
		}
	}
	return out, nil
}

func (s *Store) GetIngredient(ctx context.Context, ownerID, id string) (*models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if acc := s.account(ownerID, false); acc != nil {
		for _, r := range acc.ingredients {
			if r.ID == id {
				ing := r.model(ownerID)
				return &ing, nil
			}
		}
	}
	return nil, fmt.Errorf("ingredient %s: %w", id, storage.ErrNotFound)
}

func (s *Store) UpsertIngredient(ctx context.Context, ing *models.Ingredient) error {
	if err := validOwner(ing.OwnerID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if ing.ID == "" {
		ing.ID = uuid.New().String()
	}
	if owner, ok := s.owners[ingredientKey(ing.ID)]; ok && owner != ing.OwnerID {
		return fmt.Errorf("ingredient %s: %w", ing.ID, storage.ErrNotFound)
	}

	acc := s.account(ing.OwnerID, true)
	ts := now()
	ing.UpdatedAt = ts

	list := make([]ingredientRecord, len(acc.ingredients), len(acc.ingredients)+1)
	copy(list, acc.ingredients)
	replaced := false
	for i := range list {
		if list[i].ID == ing.ID {
			ing.CreatedAt = list[i].CreatedAt
			list[i] = newIngredientRecord(ing)
			replaced = true
			break
		}
	}
	if !replaced {
		if ing.CreatedAt == 0 {
			ing.CreatedAt = ts
		}
		list = append(list, newIngredientRecord(ing))
	}

	if err := s.writeAccountFile(ing.OwnerID, ingredientsFile, list); err != nil {
		return fmt.Errorf("failed to upsert ingredient: %w", err)
	}
	acc.ingredients = list
	s.owners[ingredientKey(ing.ID)] = ing.OwnerID
	return nil
}

func (s *Store) DeleteIngredient(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.account(ownerID, false)
	if acc == nil {
		return fmt.Errorf("ingredient %s: %w", id, storage.ErrNotFound)
	}
	for i, r := range acc.ingredients {
		if r.ID != id {
			continue
		}
		list := make([]ingredientRecord, 0, len(acc.ingredients)-1)
		list = append(list, acc.ingredients[:i]...)
		list = append(list, acc.ingredients[i+1:]...)
		if err := s.writeAccountFile(ownerID, ingredientsFile, list); err != nil {
			return fmt.Errorf("failed to delete ingredient: %w", err)
		}
		acc.ingredients = list
		delete(s.owners, ingredientKey(id))
		return nil
	}
	return fmt.Errorf("ingredient %s: %w", id, storage.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

func (s *Store) ListRecipes(ctx context.Context, ownerID string) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Recipe{}
	if acc := s.account(ownerID, false); acc != nil {
		for _, r := range acc.recipes {
			out = append(out, r.model(ownerID))
		}
	}
	return out, nil
}

func (s *Store) GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if acc := s.account(ownerID, false); acc != nil {
		for _, r := range acc.recipes {
			if r.ID == id {
				recipe := r.model(ownerID)
				return &recipe, nil
			}
		}
	}
	return nil, fmt.Errorf("recipe %s: %w", id, storage.ErrNotFound)
}

// UpsertRecipe replaces an existing recipe in place or prepends a new one.
func (s *Store) UpsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	if err := validOwner(recipe.OwnerID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if owner, ok := s.owners[recipeKey(recipe.ID)]; ok && owner != recipe.OwnerID {
		return fmt.Errorf("recipe %s: %w", recipe.ID, storage.ErrNotFound)
	}

	acc := s.account(recipe.OwnerID, true)
	ts := now()
	recipe.UpdatedAt = ts

	list := make([]recipeRecord, 0, len(acc.recipes)+1)
	replaced := false
	for _, r := range acc.recipes {
		if r.ID == recipe.ID {
			recipe.CreatedAt = r.CreatedAt
			r = newRecipeRecord(recipe)
			replaced = true
		}
		list = append(list, r)
	}
	if !replaced {
		if recipe.CreatedAt == 0 {
			recipe.CreatedAt = ts
		}
		list = append([]recipeRecord{newRecipeRecord(recipe)}, list...)
	}

	if err := s.writeAccountFile(recipe.OwnerID, recipesFile, list); err != nil {
		return fmt.Errorf("failed to upsert recipe: %w", err)
	}
	acc.recipes = list
	s.owners[recipeKey(recipe.ID)] = recipe.OwnerID
	return nil
}

func (s *Store) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.account(ownerID, false)
	if acc == nil {
		return fmt.Errorf("recipe %s: %w", id, storage.ErrNotFound)
	}
	for i, r := range acc.recipes {
		if r.ID != id {
			continue
		}
		list := make([]recipeRecord, 0, len(acc.recipes)-1)
		list = append(list, acc.recipes[:i]...)
		list = append(list, acc.recipes[i+1:]...)
		if err := s.writeAccountFile(ownerID, recipesFile, list); err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		acc.recipes = list
		delete(s.owners, recipeKey(id))
		return nil
	}
	return fmt.Errorf("recipe %s: %w", id, storage.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

func (s *Store) writeAccountFile(ownerID, name string, v any) error {
	dir := filepath.Join(s.dir, ownerID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create account directory: %w", err)
	}
	return writeFile(filepath.Join(dir, name), v)
}

// readFile decodes path into v. A missing file leaves v untouched.
func readFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeFile replaces path atomically with the msgpack encoding of v.
func writeFile(path string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
