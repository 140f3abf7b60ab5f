package commands

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/riskline/internal/assessments"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnrecognized    = errors.New("phrase not recognized")
	ErrEmptyCommand    = errors.New("action or phrase required")
	ErrPayloadRequired = errors.New("risk payload required")
)

// MapHTTPStatus maps command errors, and the domain errors surfaced by
// dispatched actions, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownAction),
		errors.Is(err, ErrEmptyCommand),
		errors.Is(err, ErrPayloadRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnrecognized):
		return http.StatusUnprocessableEntity
	}
	return assessments.MapHTTPStatus(err)
}
