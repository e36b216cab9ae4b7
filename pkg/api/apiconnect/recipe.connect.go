package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/docelucro/pkg/api"
)

// RecipeServiceName is the fully-qualified name of the RecipeService.
const RecipeServiceName = "docelucro.v1.RecipeService"

// Procedure paths of the RecipeService.
const (
	RecipeServiceCalculateRecipeProcedure = "/docelucro.v1.RecipeService/CalculateRecipe"
	RecipeServiceSaveRecipeProcedure      = "/docelucro.v1.RecipeService/SaveRecipe"
	RecipeServiceListRecipesProcedure     = "/docelucro.v1.RecipeService/ListRecipes"
	RecipeServiceGetRecipeProcedure       = "/docelucro.v1.RecipeService/GetRecipe"
	RecipeServiceDeleteRecipeProcedure    = "/docelucro.v1.RecipeService/DeleteRecipe"
	RecipeServiceListUnitsProcedure       = "/docelucro.v1.RecipeService/ListUnits"
)

// RecipeServiceClient is a client for the RecipeService.
type RecipeServiceClient interface {
	CalculateRecipe(context.Context, *connect.Request[api.CalculateRecipeRequest]) (*connect.Response[api.CalculateRecipeResponse], error)
	SaveRecipe(context.Context, *connect.Request[api.SaveRecipeRequest]) (*connect.Response[api.SaveRecipeResponse], error)
	ListRecipes(context.Context, *connect.Request[api.ListRecipesRequest]) (*connect.Response[api.ListRecipesResponse], error)
	GetRecipe(context.Context, *connect.Request[api.GetRecipeRequest]) (*connect.Response[api.GetRecipeResponse], error)
	DeleteRecipe(context.Context, *connect.Request[api.DeleteRecipeRequest]) (*connect.Response[api.DeleteRecipeResponse], error)
	ListUnits(context.Context, *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error)
}

// NewRecipeServiceClient returns a client for the RecipeService at baseURL (for
// example, http://localhost:8080). Requests are JSON encoded.
func NewRecipeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) RecipeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &recipeServiceClient{
		calculateRecipe: connect.NewClient[api.CalculateRecipeRequest, api.CalculateRecipeResponse](httpClient, baseURL+RecipeServiceCalculateRecipeProcedure, opts...),
		saveRecipe:      connect.NewClient[api.SaveRecipeRequest, api.SaveRecipeResponse](httpClient, baseURL+RecipeServiceSaveRecipeProcedure, opts...),
		listRecipes:     connect.NewClient[api.ListRecipesRequest, api.ListRecipesResponse](httpClient, baseURL+RecipeServiceListRecipesProcedure, opts...),
		getRecipe:       connect.NewClient[api.GetRecipeRequest, api.GetRecipeResponse](httpClient, baseURL+RecipeServiceGetRecipeProcedure, opts...),
		deleteRecipe:    connect.NewClient[api.DeleteRecipeRequest, api.DeleteRecipeResponse](httpClient, baseURL+RecipeServiceDeleteRecipeProcedure, opts...),
		listUnits:       connect.NewClient[api.ListUnitsRequest, api.ListUnitsResponse](httpClient, baseURL+RecipeServiceListUnitsProcedure, opts...),
	}
}

type recipeServiceClient struct {
	calculateRecipe *connect.Client[api.CalculateRecipeRequest, api.CalculateRecipeResponse]
	saveRecipe      *connect.Client[api.SaveRecipeRequest, api.SaveRecipeResponse]
	listRecipes     *connect.Client[api.ListRecipesRequest, api.ListRecipesResponse]
	getRecipe       *connect.Client[api.GetRecipeRequest, api.GetRecipeResponse]
	deleteRecipe    *connect.Client[api.DeleteRecipeRequest, api.DeleteRecipeResponse]
	listUnits       *connect.Client[api.ListUnitsRequest, api.ListUnitsResponse]
}

func (c *recipeServiceClient) CalculateRecipe(ctx context.Context, req *connect.Request[api.CalculateRecipeRequest]) (*connect.Response[api.CalculateRecipeResponse], error) {
	return c.calculateRecipe.CallUnary(ctx, req)
}

func (c *recipeServiceClient) SaveRecipe(ctx context.Context, req *connect.Request[api.SaveRecipeRequest]) (*connect.Response[api.SaveRecipeResponse], error) {
	return c.saveRecipe.CallUnary(ctx, req)
}

func (c *recipeServiceClient) ListRecipes(ctx context.Context, req *connect.Request[api.ListRecipesRequest]) (*connect.Response[api.ListRecipesResponse], error) {
	return c.listRecipes.CallUnary(ctx, req)
}

func (c *recipeServiceClient) GetRecipe(ctx context.Context, req *connect.Request[api.GetRecipeRequest]) (*connect.Response[api.GetRecipeResponse], error) {
	return c.getRecipe.CallUnary(ctx, req)
}

func (c *recipeServiceClient) DeleteRecipe(ctx context.Context, req *connect.Request[api.DeleteRecipeRequest]) (*connect.Response[api.DeleteRecipeResponse], error) {
	return c.deleteRecipe.CallUnary(ctx, req)
}

func (c *recipeServiceClient) ListUnits(ctx context.Context, req *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error) {
	return c.listUnits.CallUnary(ctx, req)
}

// RecipeServiceHandler is implemented by the server side of the RecipeService.
type RecipeServiceHandler interface {
	CalculateRecipe(context.Context, *connect.Request[api.CalculateRecipeRequest]) (*connect.Response[api.CalculateRecipeResponse], error)
	SaveRecipe(context.Context, *connect.Request[api.SaveRecipeRequest]) (*connect.Response[api.SaveRecipeResponse], error)
	ListRecipes(context.Context, *connect.Request[api.ListRecipesRequest]) (*connect.Response[api.ListRecipesResponse], error)
	GetRecipe(context.Context, *connect.Request[api.GetRecipeRequest]) (*connect.Response[api.GetRecipeResponse], error)
	DeleteRecipe(context.Context, *connect.Request[api.DeleteRecipeRequest]) (*connect.Response[api.DeleteRecipeResponse], error)
	ListUnits(context.Context, *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error)
}

// NewRecipeServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewRecipeServiceHandler(svc RecipeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	calculateRecipe := connect.NewUnaryHandler(RecipeServiceCalculateRecipeProcedure, svc.CalculateRecipe, opts...)
	saveRecipe := connect.NewUnaryHandler(RecipeServiceSaveRecipeProcedure, svc.SaveRecipe, opts...)
	listRecipes := connect.NewUnaryHandler(RecipeServiceListRecipesProcedure, svc.ListRecipes, opts...)
	getRecipe := connect.NewUnaryHandler(RecipeServiceGetRecipeProcedure, svc.GetRecipe, opts...)
	deleteRecipe := connect.NewUnaryHandler(RecipeServiceDeleteRecipeProcedure, svc.DeleteRecipe, opts...)
	listUnits := connect.NewUnaryHandler(RecipeServiceListUnitsProcedure, svc.ListUnits, opts...)
	return "/" + RecipeServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RecipeServiceCalculateRecipeProcedure:
			calculateRecipe.ServeHTTP(w, r)
		case RecipeServiceSaveRecipeProcedure:
			saveRecipe.ServeHTTP(w, r)
		case RecipeServiceListRecipesProcedure:
			listRecipes.ServeHTTP(w, r)
		case RecipeServiceGetRecipeProcedure:
			getRecipe.ServeHTTP(w, r)
		case RecipeServiceDeleteRecipeProcedure:
			deleteRecipe.ServeHTTP(w, r)
		case RecipeServiceListUnitsProcedure:
			listUnits.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedRecipeServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedRecipeServiceHandler struct{}

func (UnimplementedRecipeServiceHandler) CalculateRecipe(context.Context, *connect.Request[api.CalculateRecipeRequest]) (*connect.Response[api.CalculateRecipeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.RecipeService.CalculateRecipe is not implemented"))
}

func (UnimplementedRecipeServiceHandler) SaveRecipe(context.Context, *connect.Request[api.SaveRecipeRequest]) (*connect.Response[api.SaveRecipeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.RecipeService.SaveRecipe is not implemented"))
}

func (UnimplementedRecipeServiceHandler) ListRecipes(context.Context, *connect.Request[api.ListRecipesRequest]) (*connect.Response[api.ListRecipesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.RecipeService.ListRecipes is not implemented"))
}

func (UnimplementedRecipeServiceHandler) GetRecipe(context.Context, *connect.Request[api.GetRecipeRequest]) (*connect.Response[api.GetRecipeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.RecipeService.GetRecipe is not implemented"))
}

func (UnimplementedRecipeServiceHandler) DeleteRecipe(context.Context, *connect.Request[api.DeleteRecipeRequest]) (*connect.Response[api.DeleteRecipeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.RecipeService.DeleteRecipe is not implemented"))
}

func (UnimplementedRecipeServiceHandler) ListUnits(context.Context, *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.RecipeService.ListUnits is not implemented"))
}
