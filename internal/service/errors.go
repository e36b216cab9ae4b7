package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/docelucro/internal/auth"
	"github.com/mmynk/docelucro/internal/middleware"
	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
)

// connectError maps domain errors to Connect codes. Errors that already carry
// a code are returned as they are.
func connectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	code := connect.CodeInternal
	switch {
	case models.IsValidation(err), errors.Is(err, auth.ErrWeakPassword):
		code = connect.CodeInvalidArgument
	case errors.Is(err, models.ErrInvalidIngredientData):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, models.ErrSuggestionFailed):
		code = connect.CodeUnavailable
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		code = connect.CodeUnauthenticated
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}
	return connect.NewError(code, err)
}

// requireOwner returns the authenticated caller's id.
func requireOwner(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
