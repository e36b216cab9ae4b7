// Package suggest asks a language model for recipe ideas that fit the
// user's ingredient inventory. The call is best effort: any failure is
// reported as models.ErrSuggestionFailed and never affects stored data.
package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/docelucro/internal/models"
)

// InventoryEntry is one ingredient as shown to the model.
type InventoryEntry struct {
	Name string `json:"name"`
	// Quantity is the package size with its unit, e.g. "1000g".
	Quantity string `json:"quantity"`
}

// InventoryFromIngredients describes a catalog the way the model sees it.
func InventoryFromIngredients(ingredients []models.Ingredient) []InventoryEntry {
	out := make([]InventoryEntry, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, InventoryEntry{
			Name:     ing.Name,
			Quantity: strconv.FormatFloat(ing.PackageQuantity, 'f', -1, 64) + string(ing.PackageUnit),
		})
	}
	return out
}

// Request is the input of a suggestion call.
type Request struct {
	Description string
	Inventory   []InventoryEntry
}

// SuggestedIngredient is an ingredient line proposed by the model. It is
// informational only and never priced.
type SuggestedIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// SuggestedRecipe is one recipe idea.
type SuggestedRecipe struct {
	RecipeName  string                `json:"recipeName"`
	Ingredients []SuggestedIngredient `json:"ingredients"`
}

// Result is the decoded model answer.
type Result struct {
	SuggestedRecipes []SuggestedRecipe `json:"suggestedRecipes"`

	// Cached is set when the result was served from the cache.
	Cached bool `json:"-"`
}

// Completer sends a prompt to a language model and returns its raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithCache stores successful results in c for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Suggester) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithModelName sets the model name used in cache keys, so switching models
// does not serve stale answers.
func WithModelName(name string) Option {
	return func(s *Suggester) { s.model = name }
}

// Suggester turns a request into recipe ideas.
type Suggester struct {
	completer Completer
	cache     Cache
	ttl       time.Duration
	model     string
}

// New creates a Suggester backed by completer. Without WithCache nothing is
// cached.
func New(completer Completer, opts ...Option) *Suggester {
	s := &Suggester{
		completer: completer,
		cache:     NoopCache{},
		ttl:       24 * time.Hour,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Suggest returns recipe ideas for req. An empty description is a
// validation error; every other failure wraps models.ErrSuggestionFailed.
func (s *Suggester) Suggest(ctx context.Context, req Request) (*Result, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, models.NewValidationError("description", "describe the kind of recipe you want")
	}

	inventory, err := json.Marshal(req.Inventory)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode inventory: %v", models.ErrSuggestionFailed, err)
	}

	key := s.cacheKey(description, inventory)
	if cached, ok := s.lookup(ctx, key); ok {
		slog.Debug("suggestion cache hit", "key", key)
		cached.Cached = true
		return cached, nil
	}

	raw, err := s.completer.Complete(ctx, buildPrompt(description, string(inventory)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSuggestionFailed, err)
	}

	result, err := parseResult(raw)
	if err != nil {
		slog.Warn("unusable suggestion reply", "error", err, "raw", truncate(raw, 200))
		return nil, err
	}

	s.store(ctx, key, result)
	return result, nil
}

func (s *Suggester) lookup(ctx context.Context, key string) (*Result, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("suggestion cache read failed", "error", err)
		}
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("suggestion cache entry is corrupt", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

func (s *Suggester) store(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		slog.Warn("suggestion cache write failed", "error", err)
	}
}

func (s *Suggester) cacheKey(description string, inventory []byte) string {
	h := sha256.New()
	h.Write([]byte(s.model))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(description)))
	h.Write([]byte{0})
	h.Write(inventory)
	return "docelucro:suggest:" + hex.EncodeToString(h.Sum(nil))
}

// parseResult decodes the model reply and drops unusable entries.
func parseResult(raw string) (*Result, error) {
	var decoded Result
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to decode reply: %v", models.ErrSuggestionFailed, err)
	}

	result := &Result{SuggestedRecipes: make([]SuggestedRecipe, 0, len(decoded.SuggestedRecipes))}
	for _, r := range decoded.SuggestedRecipes {
		name := strings.TrimSpace(r.RecipeName)
		if name == "" {
			continue
		}
		ingredients := make([]SuggestedIngredient, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			ing.Name = strings.TrimSpace(ing.Name)
			if ing.Name == "" {
				continue
			}
			ingredients = append(ingredients, ing)
		}
		result.SuggestedRecipes = append(result.SuggestedRecipes, SuggestedRecipe{
			RecipeName:  name,
			Ingredients: ingredients,
		})
	}
	if len(result.SuggestedRecipes) == 0 {
		return nil, fmt.Errorf("%w: no usable suggestions", models.ErrSuggestionFailed)
	}
	return result, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
