package webservices

import (
	"github.com/go-chi/chi"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/logpkg"
)

// NewRouter serves /api/info and the host OWS service. Every request goes through the tracer and then the filters.
func NewRouter(logger *logpkg.Logger, tracer *tracing.Tracer, info *ServiceInfo, filters ...ServerFilter) chi.Router {
	router := chi.NewRouter()
	router.Use(tracing.Middleware(tracer))
	router.Use(FilterMiddleware(filters...))
	router.Route("/api/", func(r chi.Router) {
		r.Mount("/info", NewInfoService(info))
	})
	router.Mount("/", NewOWSService(logger))

	return router
}
