package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	user, err := a.Register(ctx, "  Ana@Example.com ", "Ana", "segredo")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Email = %q, want normalized address", user.Email)
	}
	if user.PasswordHash == "segredo" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	got, err := a.Authenticate(ctx, "ANA@example.com", "segredo")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated %s, want %s", got.ID, user.ID)
	}
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	if _, err := a.Register(ctx, "ana@example.com", "Ana", "12345"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: got %v, want ErrWeakPassword", err)
	}
	if _, err := a.Register(ctx, "ana@example.com", "Ana", "123456"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "ANA@example.com", "Other", "abcdef"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate email: got %v, want ErrEmailExists", err)
	}
}

func TestAuthenticate_Errors(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)
	if _, err := a.Register(ctx, "ana@example.com", "Ana", "segredo"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name, email, password string
	}{
		{"unknown email", "bia@example.com", "segredo"},
		{"wrong password", "ana@example.com", "errado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Authenticate(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("got %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "ana@example.com"}

	m := NewJWTManager("test-secret", time.Hour)
	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("unexpected claims: %+v", claims)
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: got %v, want ErrInvalidToken", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	old, err := expired.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := m.Validate(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v, want ErrInvalidToken", err)
	}

	if _, err := m.Validate(strings.Repeat("x", 20)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
	}
}
