package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/docelucro/internal/currency"
	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
	"github.com/mmynk/docelucro/pkg/api"
	"github.com/mmynk/docelucro/pkg/api/apiconnect"
)

// IngredientService implements the Connect IngredientService.
type IngredientService struct {
	apiconnect.UnimplementedIngredientServiceHandler
	store storage.IngredientStore
}

var _ apiconnect.IngredientServiceHandler = (*IngredientService)(nil)

// NewIngredientService creates an IngredientService on the given store.
func NewIngredientService(store storage.IngredientStore) *IngredientService {
	return &IngredientService{store: store}
}

// ListIngredients returns the caller's catalog in insertion order.
func (s *IngredientService) ListIngredients(ctx context.Context, req *connect.Request[api.ListIngredientsRequest]) (*connect.Response[api.ListIngredientsResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListIngredients request received", "user_id", ownerID)

	ingredients, err := s.store.ListIngredients(ctx, ownerID)
	if err != nil {
		slog.Error("ListIngredients failed", "user_id", ownerID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Ingredient, len(ingredients))
	for i := range ingredients {
		out[i] = toAPIIngredient(&ingredients[i])
	}

	slog.Info("ListIngredients successful", "count", len(out))
	return connect.NewResponse(&api.ListIngredientsResponse{Ingredients: out}), nil
}

// UpsertIngredient creates an ingredient, or edits it when an id is given.
func (s *IngredientService) UpsertIngredient(ctx context.Context, req *connect.Request[api.UpsertIngredientRequest]) (*connect.Response[api.UpsertIngredientResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpsertIngredient request received",
		"user_id", ownerID,
		"ingredient_id", req.Msg.ID,
		"name", req.Msg.Name,
	)

	ing, err := ingredientFromRequest(req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	ing.OwnerID = ownerID

	if ing.ID != "" {
		existing, err := s.store.GetIngredient(ctx, ownerID, ing.ID)
		if err != nil {
			slog.Warn("UpsertIngredient target not found", "ingredient_id", ing.ID, "error", err)
			return nil, connectError(err)
		}
		ing.CreatedAt = existing.CreatedAt
	}

	if err := s.store.UpsertIngredient(ctx, ing); err != nil {
		slog.Error("UpsertIngredient failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Ingredient saved", "ingredient_id", ing.ID)
	return connect.NewResponse(&api.UpsertIngredientResponse{Ingredient: toAPIIngredient(ing)}), nil
}

// DeleteIngredient removes an ingredient. Recipes keep their snapshots.
func (s *IngredientService) DeleteIngredient(ctx context.Context, req *connect.Request[api.DeleteIngredientRequest]) (*connect.Response[api.DeleteIngredientResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteIngredient request received", "user_id", ownerID, "ingredient_id", req.Msg.ID)

	if req.Msg.ID == "" {
		return nil, connectError(models.NewValidationError("id", "ingredient id is required"))
	}
	if err := s.store.DeleteIngredient(ctx, ownerID, req.Msg.ID); err != nil {
		slog.Warn("DeleteIngredient failed", "ingredient_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Ingredient deleted", "ingredient_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteIngredientResponse{}), nil
}

// ingredientFromRequest validates the form fields of an ingredient.
func ingredientFromRequest(msg *api.UpsertIngredientRequest) (*models.Ingredient, error) {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "ingredient name is required")
	}
	if !positive(msg.PackageQuantity) {
		return nil, models.NewValidationError("package_quantity", "must be greater than zero")
	}
	unit := models.PackageUnit(strings.ToLower(strings.TrimSpace(msg.PackageUnit)))
	if !unit.Valid() {
		return nil, models.NewValidationError("package_unit", "must be one of g, ml or un")
	}
	price := msg.Price
	if strings.TrimSpace(msg.PriceText) != "" {
		price = currency.Parse(msg.PriceText)
	}
	if !positive(price) {
		return nil, models.NewValidationError("price", "must be greater than zero")
	}

	return &models.Ingredient{
		ID:              strings.TrimSpace(msg.ID),
		Name:            name,
		PackageQuantity: msg.PackageQuantity,
		PackageUnit:     unit,
		Price:           price,
	}, nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
