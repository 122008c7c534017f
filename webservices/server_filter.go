package webservices

import (
	"bytes"
	"context"
	"net/http"
)

// RequestHandler is the view a ServerFilter has of a request and of the response produced for it so far
type RequestHandler interface {
	Context() context.Context
	// ParameterMap returns the first value of every query parameter. Names are kept as they were sent.
	ParameterMap() map[string]string
	Clear()
	SetResponseHeader(name, value string)
	SetStatusCode(statusCode int)
	AppendBody(b []byte)
}

// ServerFilter gets to change the response of every request after the host handler has run
type ServerFilter interface {
	ResponseComplete(handler RequestHandler)
}

// bufferedRequestHandler collects the host handler's response so that filters can replace it before anything is sent
type bufferedRequestHandler struct {
	r          *http.Request
	header     http.Header
	statusCode int
	body       bytes.Buffer
}

func newBufferedRequestHandler(r *http.Request) *bufferedRequestHandler {
	return &bufferedRequestHandler{r: r, header: make(http.Header)}
}

func (h *bufferedRequestHandler) Context() context.Context {
	return h.r.Context()
}

func (h *bufferedRequestHandler) ParameterMap() map[string]string {
	params := make(map[string]string)
	for name, values := range h.r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		params[name] = values[0]
	}
	return params
}

func (h *bufferedRequestHandler) Clear() {
	h.header = make(http.Header)
	h.statusCode = 0
	h.body.Reset()
}

func (h *bufferedRequestHandler) SetResponseHeader(name, value string) {
	h.header.Set(name, value)
}

func (h *bufferedRequestHandler) SetStatusCode(statusCode int) {
	h.statusCode = statusCode
}

func (h *bufferedRequestHandler) AppendBody(b []byte) {
	h.body.Write(b)
}

// http.ResponseWriter, for the host handler

func (h *bufferedRequestHandler) Header() http.Header {
	return h.header
}

func (h *bufferedRequestHandler) Write(b []byte) (int, error) {
	if h.statusCode == 0 {
		h.statusCode = http.StatusOK
	}
	return h.body.Write(b)
}

func (h *bufferedRequestHandler) WriteHeader(statusCode int) {
	if h.statusCode != 0 {
		return
	}
	h.statusCode = statusCode
}

func (h *bufferedRequestHandler) writeTo(w http.ResponseWriter) error {
	for name, values := range h.header {
		w.Header()[name] = values
	}

	statusCode := h.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)

	_, err := w.Write(h.body.Bytes())
	return err
}

// FilterMiddleware runs the rest of the chain into a buffer, lets every filter look at (and replace) the result, and then sends it once
func FilterMiddleware(filters ...ServerFilter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			handler := newBufferedRequestHandler(r)

			next.ServeHTTP(handler, r)

			for _, filter := range filters {
				filter.ResponseComplete(handler)
			}

			// the client has gone away; nothing more to do with the response
			_ = handler.writeTo(w)
		}

		return http.HandlerFunc(fn)
	}
}
