package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/docelucro/internal/middleware"
	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
	"github.com/mmynk/docelucro/internal/suggest"
	"github.com/mmynk/docelucro/pkg/api"
	"github.com/mmynk/docelucro/pkg/api/apiconnect"
)

// ErrSuggestionsDisabled is returned when no language model is configured.
var ErrSuggestionsDisabled = errors.New("recipe suggestions are not configured")

// Suggester produces recipe ideas. *suggest.Suggester implements it.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (*suggest.Result, error)
}

// SuggestionService implements the Connect SuggestionService.
type SuggestionService struct {
	apiconnect.UnimplementedSuggestionServiceHandler
	ingredients storage.IngredientStore
	suggester   Suggester
	timeout     time.Duration
	metrics     *middleware.Metrics
}

var _ apiconnect.SuggestionServiceHandler = (*SuggestionService)(nil)

// NewSuggestionService creates a SuggestionService. A nil suggester disables
// the RPC; a zero timeout leaves the call bounded only by the request.
func NewSuggestionService(ingredients storage.IngredientStore, suggester Suggester, timeout time.Duration, metrics *middleware.Metrics) *SuggestionService {
	return &SuggestionService{
		ingredients: ingredients,
		suggester:   suggester,
		timeout:     timeout,
		metrics:     metrics,
	}
}

// SuggestRecipes asks the model for recipes that fit the caller's catalog.
func (s *SuggestionService) SuggestRecipes(ctx context.Context, req *connect.Request[api.SuggestRecipesRequest]) (*connect.Response[api.SuggestRecipesResponse], error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SuggestRecipes request received", "user_id", ownerID, "description", req.Msg.Description)

	if s.suggester == nil {
		return nil, connect.NewError(connect.CodeUnavailable, ErrSuggestionsDisabled)
	}

	ingredients, err := s.ingredients.ListIngredients(ctx, ownerID)
	if err != nil {
		slog.Error("SuggestRecipes failed to load inventory", "error", err)
		return nil, connectError(err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	result, err := s.suggester.Suggest(ctx, suggest.Request{
		Description: req.Msg.Description,
		Inventory:   suggest.InventoryFromIngredients(ingredients),
	})
	if err != nil {
		if !models.IsValidation(err) {
			s.metrics.SuggestionFailed()
			slog.Warn("SuggestRecipes failed", "error", err)
		}
		return nil, connectError(err)
	}
	s.metrics.SuggestionServed(result.Cached)

	slog.Info("SuggestRecipes successful", "count", len(result.SuggestedRecipes), "cached", result.Cached)
	return connect.NewResponse(toAPISuggestions(result)), nil
}
