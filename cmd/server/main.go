package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/docelucro/internal/auth"
	"github.com/mmynk/docelucro/internal/config"
	"github.com/mmynk/docelucro/internal/middleware"
	"github.com/mmynk/docelucro/internal/service"
	"github.com/mmynk/docelucro/internal/storage/driver"
	"github.com/mmynk/docelucro/internal/suggest"
	"github.com/mmynk/docelucro/pkg/api/apiconnect"
	"github.com/mmynk/docelucro/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := driver.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Store.Driver)

	metrics := middleware.NewMetrics()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	suggester, closeSuggester := newSuggester(ctx, cfg)
	defer closeSuggester()

	logger := slog.Default()
	public := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		metrics.Interceptor(),
		middleware.OptionalAuth(jwtManager),
	)
	private := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, store, jwtManager, logger), public))
	mux.Handle(apiconnect.NewIngredientServiceHandler(
		service.NewIngredientService(store), private))
	mux.Handle(apiconnect.NewRecipeServiceHandler(
		service.NewRecipeService(store, metrics), private))
	mux.Handle(apiconnect.NewSuggestionServiceHandler(
		service.NewSuggestionService(store, suggester, cfg.LLM.Timeout, metrics), private))

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newSuggester builds the suggestion pipeline. It returns a nil Suggester
// when no model is configured; a Redis outage only disables the cache.
func newSuggester(ctx context.Context, cfg *config.Config) (service.Suggester, func()) {
	noop := func() {}
	if !cfg.LLM.Enabled() {
		slog.Info("Recipe suggestions disabled (LLM_API_KEY not set)")
		return nil, noop
	}

	completer, err := suggest.NewOpenAICompleter(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		slog.Error("Failed to initialize language model, suggestions disabled", "error", err)
		return nil, noop
	}
	opts := []suggest.Option{suggest.WithModelName(cfg.LLM.Model)}

	closer := noop
	if cfg.Redis.Addr != "" {
		cache, err := suggest.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("Suggestion cache unavailable", "addr", cfg.Redis.Addr, "error", err)
		} else {
			opts = append(opts, suggest.WithCache(cache, cfg.Redis.TTL))
			closer = func() { cache.Close() }
			slog.Info("Suggestion cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	slog.Info("Recipe suggestions enabled", "model", cfg.LLM.Model)
	return suggest.New(completer, opts...), closer
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
