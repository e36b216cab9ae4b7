package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/docelucro/internal/models"
)

type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

const cakeReply = `{"suggestedRecipes":[{"recipeName":"Bolo de Cenoura","ingredients":[{"name":"Farinha","quantity":2,"unit":"xícaras"},{"name":"","quantity":1,"unit":"un"}]},{"recipeName":"  ","ingredients":[]}]}`

func TestInventoryFromIngredients(t *testing.T) {
	ings := []models.Ingredient{
		{Name: "Farinha", PackageQuantity: 1000, PackageUnit: models.PackageUnitGrams},
		{Name: "Leite", PackageQuantity: 1.5, PackageUnit: models.PackageUnitMilliliters},
		{Name: "Ovo", PackageQuantity: 12, PackageUnit: models.PackageUnitCount},
	}
	got := InventoryFromIngredients(ings)
	want := []string{"1000g", "1.5ml", "12un"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Quantity != want[i] {
			t.Errorf("entry %d quantity = %q, want %q", i, got[i].Quantity, want[i])
		}
		if got[i].Name != ings[i].Name {
			t.Errorf("entry %d name = %q, want %q", i, got[i].Name, ings[i].Name)
		}
	}
}

func TestSuggest(t *testing.T) {
	completer := &fakeCompleter{reply: cakeReply}
	s := New(completer)

	result, err := s.Suggest(context.Background(), Request{
		Description: "bolo",
		Inventory:   []InventoryEntry{{Name: "Farinha", Quantity: "1000g"}},
	})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(result.SuggestedRecipes) != 1 {
		t.Fatalf("expected 1 usable recipe, got %d", len(result.SuggestedRecipes))
	}
	recipe := result.SuggestedRecipes[0]
	if recipe.RecipeName != "Bolo de Cenoura" {
		t.Errorf("recipe name = %q", recipe.RecipeName)
	}
	if len(recipe.Ingredients) != 1 || recipe.Ingredients[0].Name != "Farinha" {
		t.Errorf("ingredients = %+v, want only Farinha", recipe.Ingredients)
	}

	prompt := completer.prompts[0]
	if !strings.Contains(prompt, "bolo") || !strings.Contains(prompt, `"quantity":"1000g"`) {
		t.Errorf("prompt is missing description or inventory:\n%s", prompt)
	}
}

func TestSuggest_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"model error", "", errors.New("rate limited")},
		{"not json", "I suggest a cake.", nil},
		{"no recipes", `{"suggestedRecipes":[]}`, nil},
		{"only unnamed recipes", `{"suggestedRecipes":[{"recipeName":""}]}`, nil},
		{"quantity as text", `{"suggestedRecipes":[{"recipeName":"Bolo","ingredients":[{"name":"Farinha","quantity":"2"}]}]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeCompleter{reply: tt.reply, err: tt.err})
			_, err := s.Suggest(context.Background(), Request{Description: "bolo"})
			if !errors.Is(err, models.ErrSuggestionFailed) {
				t.Errorf("expected ErrSuggestionFailed, got %v", err)
			}
		})
	}
}

func TestSuggest_EmptyDescription(t *testing.T) {
	completer := &fakeCompleter{reply: cakeReply}
	_, err := New(completer).Suggest(context.Background(), Request{Description: "   "})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if completer.calls != 0 {
		t.Errorf("model should not be called, got %d calls", completer.calls)
	}
}

func TestSuggest_CodeFence(t *testing.T) {
	reply := "```json\n" + cakeReply + "\n```"
	result, err := New(&fakeCompleter{reply: reply}).Suggest(context.Background(), Request{Description: "bolo"})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(result.SuggestedRecipes) != 1 {
		t.Errorf("expected 1 recipe, got %d", len(result.SuggestedRecipes))
	}
}

func TestSuggest_Cache(t *testing.T) {
	completer := &fakeCompleter{reply: cakeReply}
	cache := newMemoryCache()
	s := New(completer, WithCache(cache, time.Hour), WithModelName("test-model"))
	ctx := context.Background()
	req := Request{Description: "bolo", Inventory: []InventoryEntry{{Name: "Farinha", Quantity: "1000g"}}}

	for i := 0; i < 3; i++ {
		if _, err := s.Suggest(ctx, req); err != nil {
			t.Fatalf("Suggest #%d failed: %v", i, err)
		}
	}
	if completer.calls != 1 {
		t.Errorf("expected 1 model call, got %d", completer.calls)
	}

	req.Inventory = append(req.Inventory, InventoryEntry{Name: "Ovo", Quantity: "12un"})
	if _, err := s.Suggest(ctx, req); err != nil {
		t.Fatalf("Suggest with new inventory failed: %v", err)
	}
	if completer.calls != 2 {
		t.Errorf("changed inventory should miss the cache, got %d calls", completer.calls)
	}
}

func TestSuggest_FailuresAreNotCached(t *testing.T) {
	completer := &fakeCompleter{reply: "nope"}
	cache := newMemoryCache()
	s := New(completer, WithCache(cache, time.Hour))

	_, _ = s.Suggest(context.Background(), Request{Description: "bolo"})
	if len(cache.data) != 0 {
		t.Errorf("expected empty cache, got %d entries", len(cache.data))
	}
}
