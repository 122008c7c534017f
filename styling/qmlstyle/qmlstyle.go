// Package qmlstyle reads QGIS layer style documents (.qml) into layer styles
package qmlstyle

import (
	"image/color"
	"strconv"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
)

const RootElementName = "qgis"

const (
	rendererTypeSingle      = "singleSymbol"
	rendererTypeCategorized = "categorizedSymbol"
	rendererTypeGraduated   = "graduatedSymbol"
	rendererTypeNull        = "nullSymbol"
)

// FromElement reads the root element of a QML document.
// The returned style has a nil Renderer if the document doesn't carry a renderer section.
func FromElement(root *styling.Element) (*styling.LayerStyle, errorsx.Error) {
	if root.Name() != RootElementName {
		return nil, errorsx.Errorf("expected a %q root element, but got %q", RootElementName, root.Name())
	}

	style := &styling.LayerStyle{
		Opacity: 1,
	}

	layerOpacity := root.Child("layerOpacity")
	if layerOpacity != nil {
		opacity, err := strconv.ParseFloat(layerOpacity.TrimmedText(), 64)
		if err != nil {
			return nil, errorsx.Wrap(err, "element", "layerOpacity")
		}
		style.Opacity = opacity
	}

	rendererElement := root.Child("renderer-v2")
	if rendererElement != nil {
		renderer, err := readRenderer(rendererElement)
		if err != nil {
			return nil, err
		}
		style.Renderer = renderer
	}

	if root.AttrOrDefault("labelsEnabled", "0") == "1" {
		labeling, err := readLabeling(root.Child("labeling"))
		if err != nil {
			return nil, err
		}
		style.Labeling = labeling
	}

	return style, nil
}

func readRenderer(element *styling.Element) (styling.FeatureRenderer, errorsx.Error) {
	rendererType := element.AttrOrDefault("type", "")
	if rendererType == rendererTypeNull {
		return &styling.NullSymbolRenderer{}, nil
	}

	symbols, err := readSymbols(element.Child("symbols"))
	if err != nil {
		return nil, errorsx.Wrap(err, "rendererType", rendererType)
	}

	switch rendererType {
	case rendererTypeSingle:
		symbol, err := lookupSymbol(symbols, "0")
		if err != nil {
			return nil, err
		}
		return &styling.SingleSymbolRenderer{Symbol: symbol}, nil
	case rendererTypeCategorized:
		return readCategorizedRenderer(element, symbols)
	case rendererTypeGraduated:
		return readGraduatedRenderer(element, symbols)
	default:
		return nil, errorsx.Errorf("unsupported renderer type: %q", rendererType)
	}
}

func readCategorizedRenderer(element *styling.Element, symbols map[string]*styling.Symbol) (*styling.CategorizedSymbolRenderer, errorsx.Error) {
	renderer := &styling.CategorizedSymbolRenderer{
		AttributeName: element.AttrOrDefault("attr", ""),
	}

	categoriesElement := element.Child("categories")
	if categoriesElement == nil {
		return renderer, nil
	}

	for _, categoryElement := range categoriesElement.ChildrenNamed("category") {
		symbol, err := lookupSymbol(symbols, categoryElement.AttrOrDefault("symbol", ""))
		if err != nil {
			return nil, err
		}

		renderer.Categories = append(renderer.Categories, &styling.Category{
			Value:  categoryElement.AttrOrDefault("value", ""),
			Symbol: symbol,
			Render: categoryElement.AttrOrDefault("render", "true") != "false",
		})
	}

	return renderer, nil
}

func readGraduatedRenderer(element *styling.Element, symbols map[string]*styling.Symbol) (*styling.GraduatedSymbolRenderer, errorsx.Error) {
	renderer := &styling.GraduatedSymbolRenderer{
		AttributeName: element.AttrOrDefault("attr", ""),
	}

	rangesElement := element.Child("ranges")
	if rangesElement == nil {
		return renderer, nil
	}

	for _, rangeElement := range rangesElement.ChildrenNamed("range") {
		symbol, err := lookupSymbol(symbols, rangeElement.AttrOrDefault("symbol", ""))
		if err != nil {
			return nil, err
		}

		lower, parseErr := strconv.ParseFloat(rangeElement.AttrOrDefault("lower", ""), 64)
		if parseErr != nil {
			return nil, errorsx.Wrap(parseErr, "attribute", "lower")
		}

		upper, parseErr := strconv.ParseFloat(rangeElement.AttrOrDefault("upper", ""), 64)
		if parseErr != nil {
			return nil, errorsx.Wrap(parseErr, "attribute", "upper")
		}

		renderer.Ranges = append(renderer.Ranges, &styling.Range{
			Lower:  lower,
			Upper:  upper,
			Symbol: symbol,
			Render: rangeElement.AttrOrDefault("render", "true") != "false",
		})
	}

	return renderer, nil
}

func lookupSymbol(symbols map[string]*styling.Symbol, name string) (*styling.Symbol, errorsx.Error) {
	symbol, ok := symbols[name]
	if !ok {
		return nil, errorsx.Errorf("symbol %q not found", name)
	}
	return symbol, nil
}

func readSymbols(element *styling.Element) (map[string]*styling.Symbol, errorsx.Error) {
	symbols := make(map[string]*styling.Symbol)
	if element == nil {
		return symbols, nil
	}

	for _, symbolElement := range element.ChildrenNamed("symbol") {
		symbol, err := readSymbol(symbolElement)
		if err != nil {
			return nil, err
		}
		symbols[symbolElement.AttrOrDefault("name", "")] = symbol
	}

	return symbols, nil
}

func readSymbol(element *styling.Element) (*styling.Symbol, errorsx.Error) {
	opacity, err := strconv.ParseFloat(element.AttrOrDefault("alpha", "1"), 64)
	if err != nil {
		return nil, errorsx.Wrap(err, "attribute", "alpha")
	}

	symbol := &styling.Symbol{
		Opacity: opacity,
	}

	for _, layerElement := range element.ChildrenNamed("layer") {
		if layerElement.AttrOrDefault("enabled", "1") == "0" {
			continue
		}

		symbolLayer, err := readSymbolLayer(layerElement)
		if err != nil {
			return nil, errorsx.Wrap(err, "symbol", element.AttrOrDefault("name", ""))
		}
		symbol.Layers = append(symbol.Layers, symbolLayer)
	}

	return symbol, nil
}

func readSymbolLayer(element *styling.Element) (*styling.SymbolLayer, errorsx.Error) {
	properties := readProperties(element)

	layerClass := styling.SymbolLayerClass(element.AttrOrDefault("class", ""))
	switch layerClass {
	case styling.SymbolLayerClassSimpleFill:
		return readSimpleFill(properties)
	case styling.SymbolLayerClassSimpleLine:
		return readSimpleLine(properties)
	case styling.SymbolLayerClassSimpleMarker:
		return readSimpleMarker(properties)
	default:
		return nil, errorsx.Errorf("unsupported symbol layer class: %q", layerClass)
	}
}

// readProperties collects the key/value pairs of a symbol layer. Older documents use <prop k="" v=""/>, newer ones <Option name="" value=""/> inside a map Option.
func readProperties(element *styling.Element) properties {
	props := make(properties)
	for _, propElement := range element.ChildrenNamed("prop") {
		props[propElement.AttrOrDefault("k", "")] = propElement.AttrOrDefault("v", "")
	}

	for _, optionMap := range element.ChildrenNamed("Option") {
		for _, option := range optionMap.ChildrenNamed("Option") {
			name, ok := option.Attr("name")
			if !ok {
				continue
			}
			props[name] = option.AttrOrDefault("value", "")
		}
	}

	return props
}

type properties map[string]string

// color returns nil if the property isn't set
func (p properties) color(key string) (color.Color, errorsx.Error) {
	value, ok := p[key]
	if !ok || value == "" {
		return nil, nil
	}

	c, err := styling.ParseColor(value)
	if err != nil {
		return nil, errorsx.Wrap(err, "property", key)
	}

	return c, nil
}

func (p properties) length(key string, defaultValue float64) (styling.Length, errorsx.Error) {
	length := styling.Length{Value: defaultValue, Unit: parseUnit(p[key+"_unit"])}

	value, ok := p[key]
	if !ok || value == "" {
		return length, nil
	}

	var err error
	length.Value, err = strconv.ParseFloat(value, 64)
	if err != nil {
		return styling.Length{}, errorsx.Wrap(err, "property", key)
	}

	return length, nil
}

func parseUnit(value string) styling.Unit {
	switch value {
	case "Pixel":
		return styling.UnitPixel
	case "Point":
		return styling.UnitPoint
	case "Inch":
		return styling.UnitInch
	case "MapUnit", "RenderMetersInMapUnits":
		return styling.UnitMapUnit
	default:
		return styling.UnitMillimeter
	}
}
