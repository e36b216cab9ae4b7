package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/docelucro/pkg/api"
)

// IngredientServiceName is the fully-qualified name of the IngredientService.
const IngredientServiceName = "docelucro.v1.IngredientService"

// Procedure paths of the IngredientService.
const (
	IngredientServiceListIngredientsProcedure  = "/docelucro.v1.IngredientService/ListIngredients"
	IngredientServiceUpsertIngredientProcedure = "/docelucro.v1.IngredientService/UpsertIngredient"
	IngredientServiceDeleteIngredientProcedure = "/docelucro.v1.IngredientService/DeleteIngredient"
)

// IngredientServiceClient is a client for the IngredientService.
type IngredientServiceClient interface {
	ListIngredients(context.Context, *connect.Request[api.ListIngredientsRequest]) (*connect.Response[api.ListIngredientsResponse], error)
	UpsertIngredient(context.Context, *connect.Request[api.UpsertIngredientRequest]) (*connect.Response[api.UpsertIngredientResponse], error)
	DeleteIngredient(context.Context, *connect.Request[api.DeleteIngredientRequest]) (*connect.Response[api.DeleteIngredientResponse], error)
}

// NewIngredientServiceClient returns a client for the IngredientService at baseURL (for
// example, http://localhost:8080). Requests are JSON encoded.
func NewIngredientServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) IngredientServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ingredientServiceClient{
		listIngredients:  connect.NewClient[api.ListIngredientsRequest, api.ListIngredientsResponse](httpClient, baseURL+IngredientServiceListIngredientsProcedure, opts...),
		upsertIngredient: connect.NewClient[api.UpsertIngredientRequest, api.UpsertIngredientResponse](httpClient, baseURL+IngredientServiceUpsertIngredientProcedure, opts...),
		deleteIngredient: connect.NewClient[api.DeleteIngredientRequest, api.DeleteIngredientResponse](httpClient, baseURL+IngredientServiceDeleteIngredientProcedure, opts...),
	}
}

type ingredientServiceClient struct {
	listIngredients  *connect.Client[api.ListIngredientsRequest, api.ListIngredientsResponse]
	upsertIngredient *connect.Client[api.UpsertIngredientRequest, api.UpsertIngredientResponse]
	deleteIngredient *connect.Client[api.DeleteIngredientRequest, api.DeleteIngredientResponse]
}

func (c *ingredientServiceClient) ListIngredients(ctx context.Context, req *connect.Request[api.ListIngredientsRequest]) (*connect.Response[api.ListIngredientsResponse], error) {
	return c.listIngredients.CallUnary(ctx, req)
}

func (c *ingredientServiceClient) UpsertIngredient(ctx context.Context, req *connect.Request[api.UpsertIngredientRequest]) (*connect.Response[api.UpsertIngredientResponse], error) {
	return c.upsertIngredient.CallUnary(ctx, req)
}

func (c *ingredientServiceClient) DeleteIngredient(ctx context.Context, req *connect.Request[api.DeleteIngredientRequest]) (*connect.Response[api.DeleteIngredientResponse], error) {
	return c.deleteIngredient.CallUnary(ctx, req)
}

// IngredientServiceHandler is implemented by the server side of the IngredientService.
type IngredientServiceHandler interface {
	ListIngredients(context.Context, *connect.Request[api.ListIngredientsRequest]) (*connect.Response[api.ListIngredientsResponse], error)
	UpsertIngredient(context.Context, *connect.Request[api.UpsertIngredientRequest]) (*connect.Response[api.UpsertIngredientResponse], error)
	DeleteIngredient(context.Context, *connect.Request[api.DeleteIngredientRequest]) (*connect.Response[api.DeleteIngredientResponse], error)
}

// NewIngredientServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewIngredientServiceHandler(svc IngredientServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listIngredients := connect.NewUnaryHandler(IngredientServiceListIngredientsProcedure, svc.ListIngredients, opts...)
	upsertIngredient := connect.NewUnaryHandler(IngredientServiceUpsertIngredientProcedure, svc.UpsertIngredient, opts...)
	deleteIngredient := connect.NewUnaryHandler(IngredientServiceDeleteIngredientProcedure, svc.DeleteIngredient, opts...)
	return "/" + IngredientServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case IngredientServiceListIngredientsProcedure:
			listIngredients.ServeHTTP(w, r)
		case IngredientServiceUpsertIngredientProcedure:
			upsertIngredient.ServeHTTP(w, r)
		case IngredientServiceDeleteIngredientProcedure:
			deleteIngredient.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedIngredientServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedIngredientServiceHandler struct{}

func (UnimplementedIngredientServiceHandler) ListIngredients(context.Context, *connect.Request[api.ListIngredientsRequest]) (*connect.Response[api.ListIngredientsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.IngredientService.ListIngredients is not implemented"))
}

func (UnimplementedIngredientServiceHandler) UpsertIngredient(context.Context, *connect.Request[api.UpsertIngredientRequest]) (*connect.Response[api.UpsertIngredientResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.IngredientService.UpsertIngredient is not implemented"))
}

func (UnimplementedIngredientServiceHandler) DeleteIngredient(context.Context, *connect.Request[api.DeleteIngredientRequest]) (*connect.Response[api.DeleteIngredientResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.IngredientService.DeleteIngredient is not implemented"))
}
