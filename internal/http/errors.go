package http

import (
	"errors"
	"net/http"

	"github.com/funnelkit/wallet-service/internal/certs"
	"github.com/funnelkit/wallet-service/internal/passkit"
	svc "github.com/funnelkit/wallet-service/internal/service"
)

// MapError translates domain errors into HTTP status plus APIError body.
func MapError(err error) (int, APIError) {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		return http.StatusNotFound, APIError{Code: "not_found", Message: "pass not found"}
	case errors.Is(err, svc.ErrUnauthorized):
		return http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "bad authentication token"}
	case errors.Is(err, svc.ErrConflict):
		return http.StatusConflict, APIError{Code: "conflict", Message: "pass is not active"}
	case errors.Is(err, svc.ErrDisabled):
		return http.StatusConflict, APIError{Code: "passes_disabled", Message: "wallet passes are disabled for this funnel"}
	case errors.Is(err, passkit.ErrValidation):
		return http.StatusUnprocessableEntity, APIError{Code: "pass_validation", Message: err.Error()}
	case errors.Is(err, certs.ErrCertificateLoad):
		return http.StatusInternalServerError, APIError{Code: "certificate_load", Message: "signing certificates are not usable"}
	case errors.Is(err, passkit.ErrSigning):
		return http.StatusInternalServerError, APIError{Code: "pass_signing", Message: "signing failed"}
	case errors.Is(err, passkit.ErrPackaging):
		return http.StatusInternalServerError, APIError{Code: "pass_packaging", Message: "packaging failed"}
	}
	return http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"}
}
