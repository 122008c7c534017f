package styling

import (
	"image/color"

	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
)

type Unit string

const (
	UnitMillimeter Unit = "MM"
	UnitPixel      Unit = "Pixel"
	UnitPoint      Unit = "Point"
	UnitInch       Unit = "Inch"
	UnitMapUnit    Unit = "MapUnit"
)

const (
	mmPerInch     = 25.4
	pointsPerInch = 72
)

// RenderContext holds what is needed to convert style lengths to pixels
type RenderContext struct {
	DPI              int
	MapUnitsPerPixel float64
}

type Length struct {
	Value float64
	Unit  Unit
}

func Millimeters(value float64) Length {
	return Length{value, UnitMillimeter}
}

func Pixels(value float64) Length {
	return Length{value, UnitPixel}
}

func Points(value float64) Length {
	return Length{value, UnitPoint}
}

func (l Length) ToPixels(rc RenderContext) float64 {
	switch l.Unit {
	case UnitPixel:
		return l.Value
	case UnitPoint:
		return l.Value * float64(rc.DPI) / pointsPerInch
	case UnitInch:
		return l.Value * float64(rc.DPI)
	case UnitMapUnit:
		if rc.MapUnitsPerPixel == 0 {
			return 0
		}
		return l.Value / rc.MapUnitsPerPixel
	default:
		// millimeters are the default unit of style documents
		return l.Value * float64(rc.DPI) / mmPerInch
	}
}

type SymbolLayerClass string

const (
	SymbolLayerClassSimpleFill   SymbolLayerClass = "SimpleFill"
	SymbolLayerClassSimpleLine   SymbolLayerClass = "SimpleLine"
	SymbolLayerClassSimpleMarker SymbolLayerClass = "SimpleMarker"
)

type LineCap string

const (
	LineCapFlat   LineCap = "flat"
	LineCapSquare LineCap = "square"
	LineCapRound  LineCap = "round"
)

type LineJoin string

const (
	LineJoinMiter LineJoin = "miter"
	LineJoinBevel LineJoin = "bevel"
	LineJoinRound LineJoin = "round"
)

type MarkerShape string

const (
	MarkerShapeCircle   MarkerShape = "circle"
	MarkerShapeSquare   MarkerShape = "square"
	MarkerShapeTriangle MarkerShape = "triangle"
	MarkerShapeDiamond  MarkerShape = "diamond"
	MarkerShapeCross    MarkerShape = "cross"
	MarkerShapeStar     MarkerShape = "star"
)

// SymbolLayer is one drawing pass of a symbol.
// A nil FillColor or StrokeColor means that part isn't drawn.
type SymbolLayer struct {
	Class       SymbolLayerClass
	FillColor   color.Color
	StrokeColor color.Color
	StrokeWidth Length
	// DashPattern alternates dash and gap lengths. Empty is a solid line.
	DashPattern []Length
	LineCap     LineCap
	LineJoin    LineJoin
	MarkerShape MarkerShape
	MarkerSize  Length
}

type Symbol struct {
	Opacity float64
	Layers  []*SymbolLayer
}

type FeatureRenderer interface {
	// SymbolsForFeature returns the symbols to draw the feature with, bottom first. No symbols means the feature isn't drawn.
	SymbolsForFeature(feature *ownmap.Feature) []*Symbol
}

type Labeling struct {
	FieldName string
	FontSize  Length
	Color     color.Color
}

// LayerStyle is everything a layer is drawn with
type LayerStyle struct {
	Renderer FeatureRenderer
	// Labeling is nil if the layer isn't labelled
	Labeling *Labeling
	Opacity  float64
}
