package ownmaprenderer

import (
	"image"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
	"github.com/paulmach/orb"
	"golang.org/x/image/font"
)

const pointsPerInch = 72

// drawLabels writes the label field of each feature centred over its anchor point
func (rr *RasterRenderer) drawLabels(img draw.Image, transform pixelTransform, rc styling.RenderContext, features []*ownmap.Feature, labeling *styling.Labeling) errorsx.Error {
	fontSizePoints := labeling.FontSize.ToPixels(rc) * pointsPerInch / float64(rc.DPI)
	if fontSizePoints <= 0 {
		return nil
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(float64(rc.DPI))
	ctx.SetFont(rr.font)
	ctx.SetFontSize(fontSizePoints)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(labeling.Color))

	face := truetype.NewFace(rr.font, &truetype.Options{
		Size: fontSizePoints,
		DPI:  float64(rc.DPI),
	})
	defer face.Close()

	for _, feature := range features {
		text, ok := feature.PropertyString(labeling.FieldName)
		if !ok || text == "" {
			continue
		}

		x, y := transform.toPixel(labelAnchor(feature.Geometry))
		textWidth := font.MeasureString(face, text).Round()

		_, err := ctx.DrawString(text, freetype.Pt(int(x)-textWidth/2, int(y)))
		if err != nil {
			return errorsx.Wrap(err, "label", text)
		}
	}

	return nil
}

// labelAnchor is where a feature's label goes: points on the point, lines on their middle vertex, and everything else in the middle of its bounds
func labelAnchor(geometry orb.Geometry) orb.Point {
	switch g := geometry.(type) {
	case orb.Point:
		return g
	case orb.LineString:
		if len(g) != 0 {
			return g[len(g)/2]
		}
	}

	return geometry.Bound().Center()
}
