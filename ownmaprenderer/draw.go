package ownmaprenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/paulmach/orb"
)

// ratio of the inner to the outer radius of star markers
const starInnerRadiusRatio = 0.382

func (rr *RasterRenderer) renderLayer(size image.Rectangle, settings *MapSettings, layer *VectorLayer) (*image.RGBA, errorsx.Error) {
	img := NewImageWithBackground(size, color.Transparent)
	transform := newPixelTransform(settings)
	rc := settings.RenderContext()

	var labelledFeatures []*ownmap.Feature
	skipped := 0
	for _, feature := range layer.Features {
		if feature.Geometry == nil {
			continue
		}

		if !ownmap.Overlaps(transform.visibleExtent, feature.Geometry.Bound()) {
			skipped++
			continue
		}

		symbols := layer.Style.Renderer.SymbolsForFeature(feature)
		if len(symbols) == 0 {
			// this feature shouldn't be shown
			continue
		}

		for _, symbol := range symbols {
			for _, symbolLayer := range symbol.Layers {
				drawSymbolLayer(img, transform, rc, feature.Geometry, symbolLayer, symbol.Opacity)
			}
		}

		if layer.Style.Labeling != nil {
			labelledFeatures = append(labelledFeatures, feature)
		}
	}

	rr.logger.Debug("layer %q: %d features, %d outside the visible extent", layer.Name, len(layer.Features), skipped)

	if len(labelledFeatures) != 0 {
		err := rr.drawLabels(img, transform, rc, labelledFeatures, layer.Style.Labeling)
		if err != nil {
			return nil, err
		}
	}

	return img, nil
}

func drawSymbolLayer(img *image.RGBA, transform pixelTransform, rc styling.RenderContext, geometry orb.Geometry, symbolLayer *styling.SymbolLayer, opacity float64) {
	switch symbolLayer.Class {
	case styling.SymbolLayerClassSimpleFill:
		for _, polygon := range polygonsOf(geometry) {
			drawPolygon(img, transform, rc, polygon, symbolLayer, opacity)
		}
	case styling.SymbolLayerClassSimpleLine:
		for _, line := range linesOf(geometry) {
			drawLine(img, transform, rc, line, symbolLayer, opacity)
		}
	case styling.SymbolLayerClassSimpleMarker:
		for _, point := range pointsOf(geometry) {
			drawMarker(img, transform, rc, point, symbolLayer, opacity)
		}
	}
}

func polygonsOf(geometry orb.Geometry) []orb.Polygon {
	switch g := geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	case orb.Ring:
		return []orb.Polygon{{g}}
	default:
		return nil
	}
}

// linesOf returns the lines of line geometries, and the rings of polygons (so lines can outline them)
func linesOf(geometry orb.Geometry) []orb.LineString {
	switch g := geometry.(type) {
	case orb.LineString:
		return []orb.LineString{g}
	case orb.MultiLineString:
		return g
	default:
		var lines []orb.LineString
		for _, polygon := range polygonsOf(geometry) {
			for _, ring := range polygon {
				lines = append(lines, orb.LineString(ring))
			}
		}
		return lines
	}
}

func pointsOf(geometry orb.Geometry) []orb.Point {
	switch g := geometry.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.MultiPoint:
		return g
	default:
		return nil
	}
}

func strokeWidthPixels(symbolLayer *styling.SymbolLayer, rc styling.RenderContext) float64 {
	width := symbolLayer.StrokeWidth.ToPixels(rc)
	if width <= 0 {
		// hairline
		return 1
	}
	return width
}

func setStroke(gc *draw2dimg.GraphicContext, rc styling.RenderContext, symbolLayer *styling.SymbolLayer, strokeColor color.Color, opacity float64) {
	gc.SetStrokeColor(styling.WithOpacity(strokeColor, opacity))
	gc.SetLineWidth(strokeWidthPixels(symbolLayer, rc))
	gc.SetLineCap(toDraw2dLineCap(symbolLayer.LineCap))
	gc.SetLineJoin(toDraw2dLineJoin(symbolLayer.LineJoin))

	dash := dashPixels(symbolLayer.DashPattern, rc)
	if len(dash) != 0 {
		gc.SetLineDash(dash, 0)
	}
}

func dashPixels(pattern []styling.Length, rc styling.RenderContext) []float64 {
	var dash []float64
	total := 0.0
	for _, length := range pattern {
		px := length.ToPixels(rc)
		dash = append(dash, px)
		total += px
	}

	if total <= 0 {
		return nil
	}

	return dash
}

func toDraw2dLineCap(lineCap styling.LineCap) draw2d.LineCap {
	switch lineCap {
	case styling.LineCapFlat:
		return draw2d.ButtCap
	case styling.LineCapRound:
		return draw2d.RoundCap
	default:
		return draw2d.SquareCap
	}
}

func toDraw2dLineJoin(lineJoin styling.LineJoin) draw2d.LineJoin {
	switch lineJoin {
	case styling.LineJoinMiter:
		return draw2d.MiterJoin
	case styling.LineJoinRound:
		return draw2d.RoundJoin
	default:
		return draw2d.BevelJoin
	}
}

func drawPolygon(img *image.RGBA, transform pixelTransform, rc styling.RenderContext, polygon orb.Polygon, symbolLayer *styling.SymbolLayer, opacity float64) {
	hasFill := symbolLayer.FillColor != nil
	hasStroke := symbolLayer.StrokeColor != nil
	if !hasFill && !hasStroke {
		return
	}

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillRule(draw2d.FillRuleEvenOdd)

	gc.BeginPath()
	for _, ring := range polygon {
		for i, point := range ring {
			x, y := transform.toPixel(point)
			if i == 0 {
				gc.MoveTo(x, y)
			} else {
				gc.LineTo(x, y)
			}
		}
		gc.Close()
	}

	if hasFill {
		gc.SetFillColor(styling.WithOpacity(symbolLayer.FillColor, opacity))
	}
	if hasStroke {
		setStroke(gc, rc, symbolLayer, symbolLayer.StrokeColor, opacity)
	}

	switch {
	case hasFill && hasStroke:
		gc.FillStroke()
	case hasFill:
		gc.Fill()
	default:
		gc.Stroke()
	}
}

func drawLine(img *image.RGBA, transform pixelTransform, rc styling.RenderContext, line orb.LineString, symbolLayer *styling.SymbolLayer, opacity float64) {
	if symbolLayer.StrokeColor == nil || len(line) < 2 {
		return
	}

	gc := draw2dimg.NewGraphicContext(img)
	setStroke(gc, rc, symbolLayer, symbolLayer.StrokeColor, opacity)

	gc.BeginPath()
	for i, point := range line {
		x, y := transform.toPixel(point)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	gc.Stroke()
}

func drawMarker(img *image.RGBA, transform pixelTransform, rc styling.RenderContext, point orb.Point, symbolLayer *styling.SymbolLayer, opacity float64) {
	cx, cy := transform.toPixel(point)
	radius := symbolLayer.MarkerSize.ToPixels(rc) / 2
	if radius <= 0 {
		return
	}

	gc := draw2dimg.NewGraphicContext(img)

	if symbolLayer.MarkerShape == styling.MarkerShapeCross {
		// crosses have no area, so they are drawn with the stroke (or the fill colour if there is no stroke)
		strokeColor := symbolLayer.StrokeColor
		if strokeColor == nil {
			strokeColor = symbolLayer.FillColor
		}
		if strokeColor == nil {
			return
		}
		setStroke(gc, rc, symbolLayer, strokeColor, opacity)

		gc.BeginPath()
		gc.MoveTo(cx-radius, cy)
		gc.LineTo(cx+radius, cy)
		gc.MoveTo(cx, cy-radius)
		gc.LineTo(cx, cy+radius)
		gc.Stroke()
		return
	}

	hasFill := symbolLayer.FillColor != nil
	hasStroke := symbolLayer.StrokeColor != nil
	if !hasFill && !hasStroke {
		return
	}

	gc.BeginPath()
	switch symbolLayer.MarkerShape {
	case styling.MarkerShapeSquare:
		draw2dkit.Rectangle(gc, cx-radius, cy-radius, cx+radius, cy+radius)
	case styling.MarkerShapeTriangle:
		polygonPath(gc, [][2]float64{{cx, cy - radius}, {cx + radius, cy + radius}, {cx - radius, cy + radius}})
	case styling.MarkerShapeDiamond:
		polygonPath(gc, [][2]float64{{cx, cy - radius}, {cx + radius, cy}, {cx, cy + radius}, {cx - radius, cy}})
	case styling.MarkerShapeStar:
		polygonPath(gc, starPoints(cx, cy, radius))
	default:
		draw2dkit.Circle(gc, cx, cy, radius)
	}

	if hasFill {
		gc.SetFillColor(styling.WithOpacity(symbolLayer.FillColor, opacity))
	}
	if hasStroke {
		setStroke(gc, rc, symbolLayer, symbolLayer.StrokeColor, opacity)
	}

	switch {
	case hasFill && hasStroke:
		gc.FillStroke()
	case hasFill:
		gc.Fill()
	default:
		gc.Stroke()
	}
}

func polygonPath(gc *draw2dimg.GraphicContext, points [][2]float64) {
	for i, point := range points {
		if i == 0 {
			gc.MoveTo(point[0], point[1])
		} else {
			gc.LineTo(point[0], point[1])
		}
	}
	gc.Close()
}

// starPoints returns the corners of a five pointed star, with the first point at the top
func starPoints(cx, cy, radius float64) [][2]float64 {
	var points [][2]float64
	for i := 0; i < 10; i++ {
		r := radius
		if i%2 == 1 {
			r = radius * starInnerRadiusRatio
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/5
		points = append(points, [2]float64{cx + r*math.Cos(angle), cy + r*math.Sin(angle)})
	}
	return points
}
