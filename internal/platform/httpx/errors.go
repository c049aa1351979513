package httpx

import (
	"errors"
	"net/http"

	"github.com/projuktisheba/erp-mini-admin/internal/erpapi"
)

// Sentinel errors surfaced by JSON endpoints.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps errors, including upstream API failures, to RFC7807
// responses.
func RespondError(w http.ResponseWriter, err error) {
	var apiErr *erpapi.APIError
	switch {
	case errors.As(err, &apiErr):
		Problem(w, http.StatusBadGateway, "Upstream Error", apiErr.Error())
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
