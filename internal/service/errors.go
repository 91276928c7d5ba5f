package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/auth"
)

// connectError maps ledger and auth errors onto Connect codes. Unexpected
// errors are logged on logger and reported as Internal without leaking detail.
func connectError(logger *slog.Logger, op string, err error) *connect.Error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			return connect.NewError(connect.CodeInvalidArgument, verr)
		}
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, apperr.ErrNotFound):
		var nerr *apperr.NotFoundError
		if errors.As(err, &nerr) {
			return connect.NewError(connect.CodeNotFound, nerr)
		}
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	}

	logger.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

// noPrincipal is returned when a protected handler runs without the auth
// interceptor having set a principal.
func noPrincipal() *connect.Error {
	return connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
}
