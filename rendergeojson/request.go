package rendergeojson

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/paulmach/orb"
)

const (
	ParamService = "SERVICE"
	ParamGeoJSON = "GEOJSON"
	ParamStyle   = "STYLE"
	ParamWidth   = "WIDTH"
	ParamHeight  = "HEIGHT"
	ParamDPI     = "DPI"
	ParamBBox    = "BBOX"

	DefaultDPI = 96
)

// ValidationError is returned when a request parameter is missing or malformed. The message is meant for the client.
type ValidationError struct {
	Parameter string
	Message   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(parameter, message string) errorsx.Error {
	return errorsx.Wrap(&ValidationError{parameter, message})
}

type RenderRequest struct {
	GeoJSONRef string
	StyleRef   string
	Width      int
	Height     int
	DPI        int
	BBox       orb.Bound
}

// ParseRenderRequest validates the parameters in a fixed order, and returns the error for the first one that is bad
func ParseRenderRequest(params map[string]string) (RenderRequest, errorsx.Error) {
	var req RenderRequest

	geoJSONRef, ok := params[ParamGeoJSON]
	if !ok {
		return RenderRequest{}, newValidationError(ParamGeoJSON, "Parameter GEOJSON must be set.")
	}
	req.GeoJSONRef = geoJSONRef

	styleRef, ok := params[ParamStyle]
	if !ok {
		return RenderRequest{}, newValidationError(ParamStyle, "Parameter STYLE must be set.")
	}
	req.StyleRef = styleRef

	var err errorsx.Error
	req.Width, err = parseRequiredPositiveInt(params, ParamWidth)
	if err != nil {
		return RenderRequest{}, err
	}

	req.Height, err = parseRequiredPositiveInt(params, ParamHeight)
	if err != nil {
		return RenderRequest{}, err
	}

	req.DPI = DefaultDPI
	_, ok = params[ParamDPI]
	if ok {
		req.DPI, err = parseRequiredPositiveInt(params, ParamDPI)
		if err != nil {
			return RenderRequest{}, err
		}
	}

	req.BBox, err = parseBBox(params)
	if err != nil {
		return RenderRequest{}, err
	}

	return req, nil
}

func parseRequiredPositiveInt(params map[string]string, name string) (int, errorsx.Error) {
	value, ok := params[name]
	if !ok {
		return 0, newValidationError(name, fmt.Sprintf("Parameter %s must be integer.", name))
	}

	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, newValidationError(name, fmt.Sprintf("Parameter %s must be integer.", name))
	}

	if i <= 0 {
		return 0, newValidationError(name, fmt.Sprintf("Parameter %s must be greater than 0.", name))
	}

	return i, nil
}

func parseBBox(params map[string]string) (orb.Bound, errorsx.Error) {
	bboxErr := newValidationError(ParamBBox, "Parameter BBOX must be specified in the form `min_x,min_y,max_x,max_y`.")

	value, ok := params[ParamBBox]
	if !ok {
		return orb.Bound{}, bboxErr
	}

	fragments := strings.Split(value, ",")
	if len(fragments) != 4 {
		return orb.Bound{}, bboxErr
	}

	var coords [4]float64
	for i, fragment := range fragments {
		coord, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
		if err != nil || math.IsNaN(coord) || math.IsInf(coord, 0) {
			return orb.Bound{}, bboxErr
		}
		coords[i] = coord
	}

	return ownmap.NewBound(coords[0], coords[1], coords[2], coords[3]), nil
}
