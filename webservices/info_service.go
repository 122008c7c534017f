package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
)

type ServiceInfo struct {
	Service               string   `json:"service"`
	LocalPrefixConfigured bool     `json:"localPrefixConfigured"`
	RenderWorkers         uint     `json:"renderWorkers"`
	StyleFormats          []string `json:"styleFormats"`
	Drivers               []string `json:"drivers"`
}

func NewInfoService(info *ServiceInfo) *InfoService {
	ws := &InfoService{info, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type InfoService struct {
	info *ServiceInfo
	chi.Router
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, ws.info)
}
