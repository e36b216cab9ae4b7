package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/docelucro/internal/auth"
	"github.com/mmynk/docelucro/internal/models"
)

func newRequest(header string) *connect.Request[struct{}] {
	req := connect.NewRequest(&struct{}{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seenUser, seenEmail string
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seenUser, seenEmail = GetUserID(ctx), GetEmail(ctx)
		return nil, nil
	}
	handler := RequireAuth(jwtManager)(next)

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid", "Bearer " + token, false},
		{"missing", "", true},
		{"wrong scheme", "Token " + token, true},
		{"bad token", "Bearer nope", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser, seenEmail = "", ""
			_, err := handler(context.Background(), newRequest(tt.header))
			if tt.wantErr {
				if connect.CodeOf(err) != connect.CodeUnauthenticated {
					t.Errorf("got %v, want Unauthenticated", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seenUser != "user-1" || seenEmail != "ana@example.com" {
				t.Errorf("context carried %q/%q", seenUser, seenEmail)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seen string
	handler := OptionalAuth(jwtManager)(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen = GetUserID(ctx)
		return nil, nil
	})

	for header, want := range map[string]string{
		"":                "",
		"Bearer garbage":  "",
		"Bearer " + token: "user-1",
	} {
		seen = "unset"
		if _, err := handler(context.Background(), newRequest(header)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != want {
			t.Errorf("header %q: user %q, want %q", header, seen, want)
		}
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := NewMetrics()
	ok := m.Interceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, nil
	})
	fail := m.Interceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})

	ctx := context.Background()
	_, _ = ok(ctx, newRequest(""))
	_, _ = ok(ctx, newRequest(""))
	_, _ = fail(ctx, newRequest(""))

	// Requests built outside a handler have an empty procedure.
	if got := testutil.ToFloat64(m.requests.WithLabelValues("", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("", "not_found")); got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}

	m.RecipeSaved()
	m.SuggestionFailed()
	m.SuggestionServed(true)
	m.SuggestionServed(false)
	m.SuggestionServed(false)
	if got := testutil.ToFloat64(m.recipesSaved); got != 1 {
		t.Errorf("recipes saved = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.suggestionServed.WithLabelValues("model")); got != 2 {
		t.Errorf("model suggestions = %v, want 2", got)
	}

	expected := `
# HELP docelucro_suggestion_failures_total Suggestion requests that returned no usable result.
# TYPE docelucro_suggestion_failures_total counter
docelucro_suggestion_failures_total 1
`
	if err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "docelucro_suggestion_failures_total"); err != nil {
		t.Error(err)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecipeSaved()
	m.SuggestionFailed()
	m.SuggestionServed(true)
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"ok", nil, "INFO"},
		{"client error", connect.NewError(connect.CodeInvalidArgument, errors.New("bad name")), "WARN"},
		{"server error", connect.NewError(connect.CodeInternal, errors.New("disk full")), "ERROR"},
		{"plain error", errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			handler := LoggingInterceptor(logger)(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				return nil, tt.err
			})
			_, err := handler(WithUser(context.Background(), "user-1", ""), newRequest(""))
			if !errors.Is(err, tt.err) {
				t.Errorf("error not passed through: %v", err)
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("bad log line %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.wantLevel || entry["user_id"] != "user-1" {
				t.Errorf("unexpected entry: %v", entry)
			}
		})
	}
}
