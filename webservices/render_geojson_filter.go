package webservices

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-rendergeojson/rendergeojson"
)

const (
	ServiceName = "RENDERGEOJSON"

	contentTypeHeader = "Content-type"
	contentTypeText   = "text/plain"

	unhandledErrorMarker = "Unhandled error"
)

type Renderer interface {
	Render(ctx context.Context, params map[string]string) (*rendergeojson.RenderOutput, errorsx.Error)
}

// RenderGeojsonFilter takes over requests with SERVICE=RENDERGEOJSON, and replaces whatever response the host made with the rendered map
type RenderGeojsonFilter struct {
	logger   *logpkg.Logger
	renderer Renderer
}

func NewRenderGeojsonFilter(logger *logpkg.Logger, renderer Renderer) *RenderGeojsonFilter {
	return &RenderGeojsonFilter{logger, renderer}
}

func (f *RenderGeojsonFilter) ResponseComplete(handler RequestHandler) {
	params := handler.ParameterMap()
	if !strings.EqualFold(params[rendergeojson.ParamService], ServiceName) {
		return
	}

	handler.Clear()

	output, err := f.renderer.Render(handler.Context(), params)
	if err != nil {
		f.respondWithError(handler, err)
		return
	}

	handler.SetResponseHeader(contentTypeHeader, output.ContentType)
	handler.SetStatusCode(http.StatusOK)
	handler.AppendBody(output.Body)
}

func (f *RenderGeojsonFilter) respondWithError(handler RequestHandler, err errorsx.Error) {
	handler.SetResponseHeader(contentTypeHeader, contentTypeText)

	validationErr, ok := errorsx.Cause(err).(*rendergeojson.ValidationError)
	if ok {
		f.logger.Info("rejected render request (parameter %s): %s", validationErr.Parameter, validationErr.Message)
		handler.SetStatusCode(http.StatusBadRequest)
		handler.AppendBody([]byte(validationErr.Message))
		return
	}

	f.logger.Error("RenderGeojson.responseComplete :: %s", fmt.Sprintf("%T", errorsx.Cause(err)))
	f.logger.Error("%s\n%s", err.Error(), err.Stack())

	handler.SetStatusCode(http.StatusInternalServerError)
	handler.AppendBody([]byte(fmt.Sprintf("%s\n%s\n%s", unhandledErrorMarker, err.Error(), err.Stack())))
}
