package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/mmynk/docelucro/internal/storage/storagetest"
)

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	store, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	storagetest.Run(t, store)
}
