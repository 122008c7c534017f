// Package sldstyle reads OGC Styled Layer Descriptor documents into rule based layer styles
package sldstyle

import (
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
)

const RootElementName = "StyledLayerDescriptor"

const uomMetre = "http://www.opengeospatial.org/se/units/metre"

// FromElement reads the rules of every feature type style in the document into one rule based renderer.
// Lengths are in pixels unless a symbolizer says otherwise.
func FromElement(root *styling.Element) (*styling.LayerStyle, errorsx.Error) {
	if root.Name() != RootElementName {
		return nil, errorsx.Errorf("expected a %q root element, but got %q", RootElementName, root.Name())
	}

	renderer := &styling.RuleBasedRenderer{}
	style := &styling.LayerStyle{
		Renderer: renderer,
		Opacity:  1,
	}

	for _, namedLayer := range root.ChildrenNamed("NamedLayer") {
		for _, userStyle := range namedLayer.ChildrenNamed("UserStyle") {
			for _, featureTypeStyle := range userStyle.ChildrenNamed("FeatureTypeStyle") {
				for _, ruleElement := range featureTypeStyle.ChildrenNamed("Rule") {
					rule, labeling, err := readRule(ruleElement)
					if err != nil {
						return nil, errorsx.Wrap(err, "rule", ruleName(ruleElement))
					}

					renderer.Rules = append(renderer.Rules, rule)
					if style.Labeling == nil {
						style.Labeling = labeling
					}
				}
			}
		}
	}

	return style, nil
}

func ruleName(element *styling.Element) string {
	nameElement := element.Child("Name")
	if nameElement == nil {
		return ""
	}
	return nameElement.TrimmedText()
}

func readRule(element *styling.Element) (*styling.Rule, *styling.Labeling, errorsx.Error) {
	rule := &styling.Rule{
		IsElse: element.Child("ElseFilter") != nil,
	}

	filterElement := element.Child("Filter")
	if filterElement != nil {
		if len(filterElement.Children) != 1 {
			return nil, nil, errorsx.Errorf("expected one filter expression, but got %d", len(filterElement.Children))
		}

		filter, err := readFilter(filterElement.Children[0])
		if err != nil {
			return nil, nil, err
		}
		rule.Filter = filter
	}

	symbol := &styling.Symbol{Opacity: 1}
	var labeling *styling.Labeling
	for _, child := range element.Children {
		var layers []*styling.SymbolLayer
		var err errorsx.Error
		switch child.Name() {
		case "PolygonSymbolizer":
			layers, err = readPolygonSymbolizer(child)
		case "LineSymbolizer":
			layers, err = readLineSymbolizer(child)
		case "PointSymbolizer":
			layers, err = readPointSymbolizer(child)
		case "TextSymbolizer":
			if labeling == nil {
				labeling, err = readTextSymbolizer(child)
			}
		}
		if err != nil {
			return nil, nil, errorsx.Wrap(err, "symbolizer", child.Name())
		}
		symbol.Layers = append(symbol.Layers, layers...)
	}

	if len(symbol.Layers) != 0 {
		rule.Symbols = []*styling.Symbol{symbol}
	}

	return rule, labeling, nil
}

// readParameters collects the CssParameter (SLD 1.0) and SvgParameter (SE 1.1) values of an element
func readParameters(element *styling.Element) map[string]string {
	params := make(map[string]string)
	if element == nil {
		return params
	}

	for _, child := range element.Children {
		switch child.Name() {
		case "CssParameter", "SvgParameter":
			params[child.AttrOrDefault("name", "")] = child.TrimmedText()
		}
	}
	return params
}

func symbolizerUnit(symbolizer *styling.Element) styling.Unit {
	if symbolizer.AttrOrDefault("uom", "") == uomMetre {
		return styling.UnitMapUnit
	}
	return styling.UnitPixel
}

func parseLength(value string, unit styling.Unit) (styling.Length, errorsx.Error) {
	length, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return styling.Length{}, errorsx.Wrap(err, "length", value)
	}
	return styling.Length{Value: length, Unit: unit}, nil
}
