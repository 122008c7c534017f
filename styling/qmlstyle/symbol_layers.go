package qmlstyle

import (
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
)

const (
	defaultOutlineWidthMM = 0.26
	defaultMarkerSizeMM   = 2
	penStyleNone          = "no"
)

// dash patterns of the built in pen styles, in multiples of the pen width
var penStyleDashPatterns = map[string][]float64{
	"dash":         {4, 2},
	"dot":          {1, 2},
	"dash dot":     {4, 2, 1, 2},
	"dash dot dot": {4, 2, 1, 2, 1, 2},
}

func readSimpleFill(props properties) (*styling.SymbolLayer, errorsx.Error) {
	layer := &styling.SymbolLayer{
		Class:    styling.SymbolLayerClassSimpleFill,
		LineJoin: parseLineJoin(props["joinstyle"]),
	}

	var err errorsx.Error
	if props["style"] != penStyleNone {
		layer.FillColor, err = props.color("color")
		if err != nil {
			return nil, err
		}
	}

	if props["outline_style"] != penStyleNone {
		layer.StrokeColor, err = props.color("outline_color")
		if err != nil {
			return nil, err
		}
	}

	layer.StrokeWidth, err = props.length("outline_width", defaultOutlineWidthMM)
	if err != nil {
		return nil, err
	}

	layer.DashPattern = builtinDashPattern(props["outline_style"], layer.StrokeWidth)

	return layer, nil
}

func readSimpleLine(props properties) (*styling.SymbolLayer, errorsx.Error) {
	layer := &styling.SymbolLayer{
		Class:    styling.SymbolLayerClassSimpleLine,
		LineCap:  parseLineCap(props["capstyle"]),
		LineJoin: parseLineJoin(props["joinstyle"]),
	}

	var err errorsx.Error
	if props["line_style"] != penStyleNone {
		layer.StrokeColor, err = props.color("line_color")
		if err != nil {
			return nil, err
		}
	}

	layer.StrokeWidth, err = props.length("line_width", defaultOutlineWidthMM)
	if err != nil {
		return nil, err
	}

	if props["use_custom_dash"] == "1" {
		layer.DashPattern, err = parseCustomDash(props["customdash"], parseUnit(props["customdash_unit"]))
		if err != nil {
			return nil, err
		}
	} else {
		layer.DashPattern = builtinDashPattern(props["line_style"], layer.StrokeWidth)
	}

	return layer, nil
}

func readSimpleMarker(props properties) (*styling.SymbolLayer, errorsx.Error) {
	layer := &styling.SymbolLayer{
		Class:       styling.SymbolLayerClassSimpleMarker,
		MarkerShape: parseMarkerShape(props["name"]),
		LineJoin:    parseLineJoin(props["joinstyle"]),
	}

	var err errorsx.Error
	layer.FillColor, err = props.color("color")
	if err != nil {
		return nil, err
	}

	if props["outline_style"] != penStyleNone {
		layer.StrokeColor, err = props.color("outline_color")
		if err != nil {
			return nil, err
		}
	}

	layer.StrokeWidth, err = props.length("outline_width", 0)
	if err != nil {
		return nil, err
	}

	layer.MarkerSize, err = props.length("size", defaultMarkerSizeMM)
	if err != nil {
		return nil, err
	}

	return layer, nil
}

func builtinDashPattern(penStyle string, width styling.Length) []styling.Length {
	multiples, ok := penStyleDashPatterns[penStyle]
	if !ok {
		return nil
	}

	if width.Value == 0 {
		// hairlines are one pixel wide
		width = styling.Pixels(1)
	}

	var pattern []styling.Length
	for _, multiple := range multiples {
		pattern = append(pattern, styling.Length{Value: multiple * width.Value, Unit: width.Unit})
	}
	return pattern
}

// parseCustomDash reads dash patterns like "5;2"
func parseCustomDash(value string, unit styling.Unit) ([]styling.Length, errorsx.Error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var pattern []styling.Length
	for _, fragment := range strings.Split(value, ";") {
		length, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
		if err != nil {
			return nil, errorsx.Wrap(err, "customdash", value)
		}
		pattern = append(pattern, styling.Length{Value: length, Unit: unit})
	}

	return pattern, nil
}

func parseLineCap(value string) styling.LineCap {
	switch value {
	case "flat":
		return styling.LineCapFlat
	case "round":
		return styling.LineCapRound
	default:
		return styling.LineCapSquare
	}
}

func parseLineJoin(value string) styling.LineJoin {
	switch value {
	case "miter":
		return styling.LineJoinMiter
	case "round":
		return styling.LineJoinRound
	default:
		return styling.LineJoinBevel
	}
}

func parseMarkerShape(value string) styling.MarkerShape {
	switch value {
	case "square", "rectangle":
		return styling.MarkerShapeSquare
	case "triangle", "equilateral_triangle":
		return styling.MarkerShapeTriangle
	case "diamond":
		return styling.MarkerShapeDiamond
	case "cross", "cross2", "cross_fill", "x":
		return styling.MarkerShapeCross
	case "star", "regular_star":
		return styling.MarkerShapeStar
	default:
		return styling.MarkerShapeCircle
	}
}
