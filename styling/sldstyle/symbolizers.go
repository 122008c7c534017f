package sldstyle

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
)

const defaultMarkSize = 6

var (
	defaultFillColor   = color.NRGBA{0x80, 0x80, 0x80, 0xff}
	defaultStrokeColor = color.NRGBA{0, 0, 0, 0xff}
)

func readPolygonSymbolizer(symbolizer *styling.Element) ([]*styling.SymbolLayer, errorsx.Error) {
	layer := &styling.SymbolLayer{
		Class:       styling.SymbolLayerClassSimpleFill,
		StrokeWidth: styling.Pixels(1),
		LineJoin:    styling.LineJoinMiter,
	}

	unit := symbolizerUnit(symbolizer)

	err := readFill(symbolizer.Child("Fill"), layer)
	if err != nil {
		return nil, err
	}

	err = readStroke(symbolizer.Child("Stroke"), unit, layer)
	if err != nil {
		return nil, err
	}

	return []*styling.SymbolLayer{layer}, nil
}

func readLineSymbolizer(symbolizer *styling.Element) ([]*styling.SymbolLayer, errorsx.Error) {
	layer := &styling.SymbolLayer{
		Class:       styling.SymbolLayerClassSimpleLine,
		StrokeColor: defaultStrokeColor,
		StrokeWidth: styling.Pixels(1),
		LineCap:     styling.LineCapFlat,
		LineJoin:    styling.LineJoinMiter,
	}

	stroke := symbolizer.Child("Stroke")
	if stroke == nil {
		// a line symbolizer without a stroke draws nothing
		return nil, nil
	}

	err := readStroke(stroke, symbolizerUnit(symbolizer), layer)
	if err != nil {
		return nil, err
	}

	return []*styling.SymbolLayer{layer}, nil
}

func readPointSymbolizer(symbolizer *styling.Element) ([]*styling.SymbolLayer, errorsx.Error) {
	unit := symbolizerUnit(symbolizer)

	graphic := symbolizer.Child("Graphic")
	if graphic == nil {
		return nil, nil
	}

	size := styling.Length{Value: defaultMarkSize, Unit: unit}
	sizeElement := graphic.Child("Size")
	if sizeElement != nil {
		var err errorsx.Error
		size, err = parseLength(sizeElement.TrimmedText(), unit)
		if err != nil {
			return nil, err
		}
	}

	var layers []*styling.SymbolLayer
	for _, mark := range graphic.ChildrenNamed("Mark") {
		layer := &styling.SymbolLayer{
			Class:       styling.SymbolLayerClassSimpleMarker,
			MarkerShape: styling.MarkerShapeSquare,
			MarkerSize:  size,
			StrokeWidth: styling.Pixels(1),
			LineJoin:    styling.LineJoinMiter,
		}

		wellKnownName := mark.Child("WellKnownName")
		if wellKnownName != nil {
			layer.MarkerShape = parseWellKnownName(wellKnownName.TrimmedText())
		}

		err := readFill(mark.Child("Fill"), layer)
		if err != nil {
			return nil, err
		}

		err = readStroke(mark.Child("Stroke"), unit, layer)
		if err != nil {
			return nil, err
		}

		layers = append(layers, layer)
	}

	return layers, nil
}

// readFill sets the fill of the layer. No Fill element means a grey fill.
func readFill(fill *styling.Element, layer *styling.SymbolLayer) errorsx.Error {
	if fill == nil {
		layer.FillColor = defaultFillColor
		return nil
	}

	params := readParameters(fill)
	fillColor, err := parseColorParameter(params, "fill", "fill-opacity", defaultFillColor)
	if err != nil {
		return err
	}
	layer.FillColor = fillColor

	return nil
}

// readStroke sets the stroke of the layer. No Stroke element means no stroke.
func readStroke(stroke *styling.Element, unit styling.Unit, layer *styling.SymbolLayer) errorsx.Error {
	if stroke == nil {
		layer.StrokeColor = nil
		return nil
	}

	params := readParameters(stroke)
	strokeColor, err := parseColorParameter(params, "stroke", "stroke-opacity", defaultStrokeColor)
	if err != nil {
		return err
	}
	layer.StrokeColor = strokeColor

	width, ok := params["stroke-width"]
	if ok {
		layer.StrokeWidth, err = parseLength(width, unit)
		if err != nil {
			return err
		}
	}

	switch params["stroke-linejoin"] {
	case "bevel":
		layer.LineJoin = styling.LineJoinBevel
	case "round":
		layer.LineJoin = styling.LineJoinRound
	case "mitre", "miter":
		layer.LineJoin = styling.LineJoinMiter
	}

	switch params["stroke-linecap"] {
	case "butt":
		layer.LineCap = styling.LineCapFlat
	case "round":
		layer.LineCap = styling.LineCapRound
	case "square":
		layer.LineCap = styling.LineCapSquare
	}

	dashArray, ok := params["stroke-dasharray"]
	if ok {
		layer.DashPattern, err = parseDashArray(dashArray, unit)
		if err != nil {
			return err
		}
	}

	return nil
}

func parseColorParameter(params map[string]string, colorKey, opacityKey string, defaultColor color.NRGBA) (color.Color, errorsx.Error) {
	var c color.Color = defaultColor
	value, ok := params[colorKey]
	if ok {
		parsed, err := styling.ParseColor(value)
		if err != nil {
			return nil, errorsx.Wrap(err, "parameter", colorKey)
		}
		c = parsed
	}

	opacityValue, ok := params[opacityKey]
	if ok {
		opacity, err := strconv.ParseFloat(opacityValue, 64)
		if err != nil {
			return nil, errorsx.Wrap(err, "parameter", opacityKey)
		}
		c = styling.WithOpacity(c, opacity)
	}

	return c, nil
}

// parseDashArray reads space separated dash arrays like "5 2"
func parseDashArray(value string, unit styling.Unit) ([]styling.Length, errorsx.Error) {
	var pattern []styling.Length
	for _, fragment := range strings.Fields(value) {
		length, err := parseLength(fragment, unit)
		if err != nil {
			return nil, err
		}
		pattern = append(pattern, length)
	}
	return pattern, nil
}

func parseWellKnownName(value string) styling.MarkerShape {
	switch strings.ToLower(value) {
	case "circle":
		return styling.MarkerShapeCircle
	case "triangle":
		return styling.MarkerShapeTriangle
	case "star":
		return styling.MarkerShapeStar
	case "cross", "x":
		return styling.MarkerShapeCross
	case "diamond":
		return styling.MarkerShapeDiamond
	default:
		return styling.MarkerShapeSquare
	}
}

func readTextSymbolizer(symbolizer *styling.Element) (*styling.Labeling, errorsx.Error) {
	label := symbolizer.Child("Label")
	if label == nil {
		return nil, nil
	}

	propertyName := label.Child("PropertyName")
	if propertyName == nil {
		return nil, nil
	}

	labeling := &styling.Labeling{
		FieldName: propertyName.TrimmedText(),
		FontSize:  styling.Length{Value: 10, Unit: symbolizerUnit(symbolizer)},
		Color:     defaultStrokeColor,
	}

	fontParams := readParameters(symbolizer.Child("Font"))
	fontSize, ok := fontParams["font-size"]
	if ok {
		var err errorsx.Error
		labeling.FontSize, err = parseLength(fontSize, symbolizerUnit(symbolizer))
		if err != nil {
			return nil, err
		}
	}

	fill := symbolizer.Child("Fill")
	if fill != nil {
		textColor, err := parseColorParameter(readParameters(fill), "fill", "fill-opacity", defaultStrokeColor)
		if err != nil {
			return nil, err
		}
		labeling.Color = textColor
	}

	return labeling, nil
}
