package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/docelucro/internal/builder"
	"github.com/mmynk/docelucro/internal/calculator"
	"github.com/mmynk/docelucro/internal/middleware"
	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
	"github.com/mmynk/docelucro/pkg/api"
	"github.com/mmynk/docelucro/pkg/api/apiconnect"
)

// RecipeStore is the persistence a RecipeService needs: recipes plus the
// ingredient catalog new line items are priced from.
type RecipeStore interface {
	storage.RecipeStore
	storage.IngredientStore
}

// RecipeService implements the Connect RecipeService.
type RecipeService struct {
	apiconnect.UnimplementedRecipeServiceHandler
	store   RecipeStore
	metrics *middleware.Metrics
}

var _ apiconnect.RecipeServiceHandler = (*RecipeService)(nil)

// NewRecipeService creates a RecipeService. metrics may be nil.
func NewRecipeService(store RecipeStore, metrics *middleware.Metrics) *RecipeService {
	return &RecipeService{store: store, metrics: metrics}
}

// CalculateRecipe prices a recipe without saving it.
func (s *RecipeService) CalculateRecipe(ctx context.Context, req *connect.Request[api.CalculateRecipeRequest]) (*connect.Response[api.CalculateRecipeResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CalculateRecipe request received", "user_id", ownerID)

	draft, err := s.draftFromInput(ctx, ownerID, req.Msg.Recipe)
	if err != nil {
		slog.Warn("CalculateRecipe rejected", "error", err)
		return nil, connectError(err)
	}
	if err := draft.Parameters.Validate(); err != nil {
		return nil, connectError(err)
	}

	totals := draft.Totals()
	if err := totals.Validate(); err != nil {
		slog.Warn("CalculateRecipe rejected", "error", err)
		return nil, connectError(err)
	}
	slog.Info("CalculateRecipe successful",
		"items", len(draft.Items),
		"total_cost", totals.TotalCost,
		"sale_price", totals.SalePrice,
	)
	return connect.NewResponse(&api.CalculateRecipeResponse{
		Recipe: toAPIRecipe(draft.ID, strings.TrimSpace(draft.Name), draft.Items, draft.Parameters, totals),
	}), nil
}

// SaveRecipe creates a recipe, or replaces it when an id is given.
func (s *RecipeService) SaveRecipe(ctx context.Context, req *connect.Request[api.SaveRecipeRequest]) (*connect.Response[api.SaveRecipeResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SaveRecipe request received", "user_id", ownerID)

	draft, err := s.draftFromInput(ctx, ownerID, req.Msg.Recipe)
	if err != nil {
		slog.Warn("SaveRecipe rejected", "error", err)
		return nil, connectError(err)
	}

	recipe, err := draft.Recipe(ownerID, time.Now().UnixMilli())
	if err != nil {
		slog.Warn("SaveRecipe rejected", "error", err)
		return nil, connectError(err)
	}

	if err := s.store.UpsertRecipe(ctx, recipe); err != nil {
		slog.Error("SaveRecipe failed", "recipe_id", recipe.ID, "error", err)
		return nil, connectError(err)
	}
	s.metrics.RecipeSaved()

	slog.Info("Recipe saved",
		"recipe_id", recipe.ID,
		"items", len(recipe.Items),
		"sale_price", recipe.SalePrice,
	)
	return connect.NewResponse(&api.SaveRecipeResponse{Recipe: toAPISavedRecipe(recipe)}), nil
}

// ListRecipes returns the caller's recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, req *connect.Request[api.ListRecipesRequest]) (*connect.Response[api.ListRecipesResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListRecipes request received", "user_id", ownerID)

	recipes, err := s.store.ListRecipes(ctx, ownerID)
	if err != nil {
		slog.Error("ListRecipes failed", "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Recipe, len(recipes))
	for i := range recipes {
		out[i] = toAPISavedRecipe(&recipes[i])
	}

	slog.Info("ListRecipes successful", "count", len(out))
	return connect.NewResponse(&api.ListRecipesResponse{Recipes: out}), nil
}

// GetRecipe returns one saved recipe.
func (s *RecipeService) GetRecipe(ctx context.Context, req *connect.Request[api.GetRecipeRequest]) (*connect.Response[api.GetRecipeResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetRecipe request received", "recipe_id", req.Msg.ID)

	recipe, err := s.store.GetRecipe(ctx, ownerID, req.Msg.ID)
	if err != nil {
		slog.Warn("GetRecipe failed", "recipe_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetRecipeResponse{Recipe: toAPISavedRecipe(recipe)}), nil
}

// DeleteRecipe removes a saved recipe.
func (s *RecipeService) DeleteRecipe(ctx context.Context, req *connect.Request[api.DeleteRecipeRequest]) (*connect.Response[api.DeleteRecipeResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteRecipe request received", "recipe_id", req.Msg.ID)

	if req.Msg.ID == "" {
		return nil, connectError(models.NewValidationError("id", "recipe id is required"))
	}
	if err := s.store.DeleteRecipe(ctx, ownerID, req.Msg.ID); err != nil {
		slog.Warn("DeleteRecipe failed", "recipe_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Recipe deleted", "recipe_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteRecipeResponse{}), nil
}

// ListUnits returns the display-unit conversion table.
func (s *RecipeService) ListUnits(ctx context.Context, req *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error) {
	units := calculator.Units()
	out := make([]*api.Unit, len(units))
	for i, u := range units {
		out[i] = &api.Unit{Unit: string(u.Unit), Label: u.Label, Factor: u.Factor}
	}
	return connect.NewResponse(&api.ListUnitsResponse{Units: out}), nil
}

// draftFromInput rebuilds the editing state sent by the client. Items that
// carry an id must belong to the saved recipe and keep their stored
// snapshot, at most once each; saved items left out are dropped. The rest
// are priced from the current catalog.
func (s *RecipeService) draftFromInput(ctx context.Context, ownerID string, in *api.RecipeInput) (*builder.Draft, error) {
	if in == nil {
		return nil, models.NewValidationError("recipe", "recipe is required")
	}

	draft := builder.New()
	saved := builder.New()
	if in.ID != "" {
		existing, err := s.store.GetRecipe(ctx, ownerID, in.ID)
		if err != nil {
			return nil, err
		}
		saved = builder.FromRecipe(existing)
		draft = builder.FromRecipe(existing)
		draft.Items = nil
	}

	if in.Suggestion != nil {
		draft.ApplySuggestion(fromAPISuggestion(in.Suggestion))
	}
	if in.Suggestion == nil || strings.TrimSpace(in.Name) != "" {
		draft.Name = in.Name
	}
	if in.VariableCostsPercentage != nil {
		draft.Parameters.VariableCostsPercentage = *in.VariableCostsPercentage
	}
	if in.PackagingCost != nil {
		draft.Parameters.PackagingCost = *in.PackagingCost
	}
	if in.ProfitMargin != nil {
		draft.Parameters.ProfitMargin = *in.ProfitMargin
	}

	var catalog builder.Catalog
	kept := make(map[string]bool)
	for i, item := range in.Items {
		if item == nil {
			return nil, models.NewValidationError("items", "item %d is empty", i)
		}
		if item.ID != "" {
			if kept[item.ID] {
				return nil, models.NewValidationError("items", "item %q is listed more than once", item.ID)
			}
			stored, ok := saved.Item(item.ID)
			if !ok {
				return nil, models.NewValidationError("items", "item %q is not part of this recipe", item.ID)
			}
			saved.RemoveItem(item.ID)
			kept[item.ID] = true
			draft.KeepItem(stored)
			continue
		}

		unit, err := calculator.ParseUnit(item.DisplayUnit)
		if err != nil {
			return nil, err
		}
		if catalog == nil {
			ingredients, err := s.store.ListIngredients(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			catalog = builder.CatalogFrom(ingredients)
		}
		if _, err := draft.AddItem(catalog, item.IngredientID, item.DisplayQuantity, unit); err != nil {
			return nil, err
		}
	}
	if len(saved.Items) > 0 {
		slog.Debug("Dropping recipe items", "recipe_id", in.ID, "removed", len(saved.Items))
	}
	return draft, nil
}
