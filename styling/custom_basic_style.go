package styling

import (
	"image/color"

	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
)

var (
	defaultFillColor   = color.RGBA{172, 200, 160, 0xff}
	defaultStrokeColor = color.RGBA{35, 35, 35, 0xff}
	defaultLineColor   = color.RGBA{0xbc, 0xac, 0xa5, 0xff}
	defaultMarkerColor = color.RGBA{0xf3, 0x8d, 0x9e, 0xff}
)

// DefaultLayerStyle is what a layer is drawn with before a style document has been read into it
func DefaultLayerStyle(geometryType ownmap.GeometryType) *LayerStyle {
	return &LayerStyle{
		Renderer: &SingleSymbolRenderer{Symbol: DefaultSymbol(geometryType)},
		Opacity:  1,
	}
}

func DefaultSymbol(geometryType ownmap.GeometryType) *Symbol {
	var layer *SymbolLayer
	switch geometryType {
	case ownmap.GeometryTypePolygon:
		layer = &SymbolLayer{
			Class:       SymbolLayerClassSimpleFill,
			FillColor:   defaultFillColor,
			StrokeColor: defaultStrokeColor,
			StrokeWidth: Millimeters(0.26),
			LineJoin:    LineJoinBevel,
		}
	case ownmap.GeometryTypeLine:
		layer = &SymbolLayer{
			Class:       SymbolLayerClassSimpleLine,
			StrokeColor: defaultLineColor,
			StrokeWidth: Millimeters(0.26),
			LineCap:     LineCapSquare,
			LineJoin:    LineJoinBevel,
		}
	default:
		layer = &SymbolLayer{
			Class:       SymbolLayerClassSimpleMarker,
			FillColor:   defaultMarkerColor,
			StrokeColor: defaultStrokeColor,
			StrokeWidth: Millimeters(0),
			MarkerShape: MarkerShapeCircle,
			MarkerSize:  Millimeters(2),
		}
	}

	return &Symbol{
		Opacity: 1,
		Layers:  []*SymbolLayer{layer},
	}
}
