package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/docelucro/pkg/api"
)

// SuggestionServiceName is the fully-qualified name of the SuggestionService.
const SuggestionServiceName = "docelucro.v1.SuggestionService"

// Procedure paths of the SuggestionService.
const (
	SuggestionServiceSuggestRecipesProcedure = "/docelucro.v1.SuggestionService/SuggestRecipes"
)

// SuggestionServiceClient is a client for the SuggestionService.
type SuggestionServiceClient interface {
	SuggestRecipes(context.Context, *connect.Request[api.SuggestRecipesRequest]) (*connect.Response[api.SuggestRecipesResponse], error)
}

// NewSuggestionServiceClient returns a client for the SuggestionService at baseURL (for
// example, http://localhost:8080). Requests are JSON encoded.
func NewSuggestionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SuggestionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &suggestionServiceClient{
		suggestRecipes: connect.NewClient[api.SuggestRecipesRequest, api.SuggestRecipesResponse](httpClient, baseURL+SuggestionServiceSuggestRecipesProcedure, opts...),
	}
}

type suggestionServiceClient struct {
	suggestRecipes *connect.Client[api.SuggestRecipesRequest, api.SuggestRecipesResponse]
}

func (c *suggestionServiceClient) SuggestRecipes(ctx context.Context, req *connect.Request[api.SuggestRecipesRequest]) (*connect.Response[api.SuggestRecipesResponse], error) {
	return c.suggestRecipes.CallUnary(ctx, req)
}

// SuggestionServiceHandler is implemented by the server side of the SuggestionService.
type SuggestionServiceHandler interface {
	SuggestRecipes(context.Context, *connect.Request[api.SuggestRecipesRequest]) (*connect.Response[api.SuggestRecipesResponse], error)
}

// NewSuggestionServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewSuggestionServiceHandler(svc SuggestionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	suggestRecipes := connect.NewUnaryHandler(SuggestionServiceSuggestRecipesProcedure, svc.SuggestRecipes, opts...)
	return "/" + SuggestionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SuggestionServiceSuggestRecipesProcedure:
			suggestRecipes.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSuggestionServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSuggestionServiceHandler struct{}

func (UnimplementedSuggestionServiceHandler) SuggestRecipes(context.Context, *connect.Request[api.SuggestRecipesRequest]) (*connect.Response[api.SuggestRecipesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("docelucro.v1.SuggestionService.SuggestRecipes is not implemented"))
}
