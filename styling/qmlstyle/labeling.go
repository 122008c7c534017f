package qmlstyle

import (
	"image/color"
	"strconv"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
)

const (
	labelingTypeSimple = "simple"
	defaultFontSizePt  = 10
)

var defaultTextColor = color.NRGBA{50, 50, 50, 0xff}

// readLabeling reads a simple labeling section. Other labeling types are not drawn.
func readLabeling(element *styling.Element) (*styling.Labeling, errorsx.Error) {
	if element == nil || element.AttrOrDefault("type", "") != labelingTypeSimple {
		return nil, nil
	}

	textStyle := element.Path("settings", "text-style")
	if textStyle == nil {
		return nil, nil
	}

	fieldName := textStyle.AttrOrDefault("fieldName", "")
	if fieldName == "" {
		return nil, nil
	}

	labeling := &styling.Labeling{
		FieldName: fieldName,
		FontSize:  styling.Points(defaultFontSizePt),
		Color:     defaultTextColor,
	}

	fontSize, ok := textStyle.Attr("fontSize")
	if ok {
		size, err := strconv.ParseFloat(fontSize, 64)
		if err != nil {
			return nil, errorsx.Wrap(err, "attribute", "fontSize")
		}
		labeling.FontSize = styling.Length{Value: size, Unit: parseFontSizeUnit(textStyle.AttrOrDefault("fontSizeUnit", ""))}
	}

	textColor, ok := textStyle.Attr("textColor")
	if ok {
		c, err := styling.ParseColor(textColor)
		if err != nil {
			return nil, errorsx.Wrap(err, "attribute", "textColor")
		}
		labeling.Color = c
	}

	textOpacity, ok := textStyle.Attr("textOpacity")
	if ok {
		opacity, err := strconv.ParseFloat(textOpacity, 64)
		if err != nil {
			return nil, errorsx.Wrap(err, "attribute", "textOpacity")
		}
		labeling.Color = styling.WithOpacity(labeling.Color, opacity)
	}

	return labeling, nil
}

// font sizes default to points, unlike the other lengths
func parseFontSizeUnit(value string) styling.Unit {
	if value == "" {
		return styling.UnitPoint
	}
	return parseUnit(value)
}
