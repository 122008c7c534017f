package ownmaprenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
	"github.com/paulmach/orb"
)

type MapSettings struct {
	// OutputSize is the width and height of the image in pixels
	OutputSize image.Point
	OutputDPI  int
	Extent     orb.Bound
	// Layers are drawn in order, so the first layer is at the bottom
	Layers          []*VectorLayer
	BackgroundColor color.Color
}

func (s *MapSettings) Validate() errorsx.Error {
	if s.OutputSize.X <= 0 || s.OutputSize.Y <= 0 {
		return errorsx.Errorf("output size must be at least 1x1, but was %dx%d", s.OutputSize.X, s.OutputSize.Y)
	}

	if s.OutputDPI <= 0 {
		return errorsx.Errorf("output DPI must be greater than 0, but was %d", s.OutputDPI)
	}

	return nil
}

// MapUnitsPerPixel is the scale the extent is drawn at. The extent is fitted into the image on its larger side.
func (s *MapSettings) MapUnitsPerPixel() float64 {
	xUnitsPerPixel := math.Abs(s.Extent.Max.X()-s.Extent.Min.X()) / float64(s.OutputSize.X)
	yUnitsPerPixel := math.Abs(s.Extent.Max.Y()-s.Extent.Min.Y()) / float64(s.OutputSize.Y)

	unitsPerPixel := math.Max(xUnitsPerPixel, yUnitsPerPixel)
	if unitsPerPixel <= 0 {
		// a degenerate extent (a single point) is drawn at a scale of one map unit per pixel
		return 1
	}

	return unitsPerPixel
}

// VisibleExtent is the area that ends up in the image. It is the requested extent grown on one axis to match the aspect ratio of the image, around the same centre.
func (s *MapSettings) VisibleExtent() orb.Bound {
	unitsPerPixel := s.MapUnitsPerPixel()
	center := s.Extent.Center()

	halfWidth := unitsPerPixel * float64(s.OutputSize.X) / 2
	halfHeight := unitsPerPixel * float64(s.OutputSize.Y) / 2

	return orb.Bound{
		Min: orb.Point{center.X() - halfWidth, center.Y() - halfHeight},
		Max: orb.Point{center.X() + halfWidth, center.Y() + halfHeight},
	}
}

func (s *MapSettings) RenderContext() styling.RenderContext {
	return styling.RenderContext{
		DPI:              s.OutputDPI,
		MapUnitsPerPixel: s.MapUnitsPerPixel(),
	}
}

// pixelTransform maps map coordinates to image coordinates, with the y axis pointing down
type pixelTransform struct {
	visibleExtent orb.Bound
	unitsPerPixel float64
}

func newPixelTransform(settings *MapSettings) pixelTransform {
	return pixelTransform{
		visibleExtent: settings.VisibleExtent(),
		unitsPerPixel: settings.MapUnitsPerPixel(),
	}
}

func (t pixelTransform) toPixel(point orb.Point) (float64, float64) {
	x := (point.X() - t.visibleExtent.Min.X()) / t.unitsPerPixel
	y := (t.visibleExtent.Max.Y() - point.Y()) / t.unitsPerPixel
	return x, y
}
