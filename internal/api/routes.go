package api

import (
	"net/http"

	"github.com/JaimeStill/riskline/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Risks.Handler().Routes(),
		domain.Assessments.Handler().Routes(),
		domain.Commands.Handler().Routes(),
	)
}
