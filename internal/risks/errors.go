package risks

import (
	"errors"
	"net/http"
)

// Domain errors for risk ledger operations.
var (
	ErrNotFound       = errors.New("risk not found")
	ErrDuplicate      = errors.New("risk already exists")
	ErrInvalid        = errors.New("invalid risk")
	ErrInvalidLevel   = errors.New("invalid risk level")
	ErrInvalidRank    = errors.New("invalid risk ranking")
	ErrLevelImmutable = errors.New("risk level cannot change")
)

// MapHTTPStatus maps risk domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrLevelImmutable) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) || errors.Is(err, ErrInvalidLevel) || errors.Is(err, ErrInvalidRank) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
