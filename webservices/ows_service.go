package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/goutil/logpkg"
)

// OWSService stands in for the host's own services. It knows none, so anything a filter doesn't take over is a client error.
type OWSService struct {
	logger *logpkg.Logger
	chi.Router
}

func NewOWSService(logger *logpkg.Logger) *OWSService {
	ws := &OWSService{logger, chi.NewRouter()}
	ws.HandleFunc("/*", ws.handleRequest)

	return ws
}

func (ws *OWSService) handleRequest(w http.ResponseWriter, r *http.Request) {
	ws.logger.Debug("no service for %q", r.URL.String())

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte("Service unknown or unsupported"))
}
