package assessments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/pkg/storage"
)

var (
	ErrNoHierarchy     = errors.New("no hierarchy provided and no hierarchy file configured")
	ErrArchiveDisabled = errors.New("snapshot archive disabled")
	ErrInvalidBatch    = errors.New("invalid batch id")
	ErrInvalidFormat   = errors.New("invalid snapshot format")
)

// MapHTTPStatus maps assessment errors, and the risk and storage errors
// they wrap, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoHierarchy),
		errors.Is(err, ErrInvalidBatch),
		errors.Is(err, ErrInvalidFormat),
		errors.Is(err, hierarchy.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrArchiveDisabled):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrInvalidKey),
		errors.Is(err, storage.ErrInvalidMaxResults):
		return storage.MapHTTPStatus(err)
	}
	return risks.MapHTTPStatus(err)
}
