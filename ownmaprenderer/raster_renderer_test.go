package ownmaprenderer_test

import (
	"image"
	"image/color"
	"io"
	"testing"

	snapshot "github.com/jamesrr39/go-snapshot-testing"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-rendergeojson/fonts"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap/testmocks"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmaprenderer"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{0xff, 0, 0, 0xff}
	blue = color.NRGBA{0, 0, 0xff, 0xff}
)

func newTestRenderer() *ownmaprenderer.RasterRenderer {
	return ownmaprenderer.NewRasterRenderer(logpkg.NewLogger(io.Discard, logpkg.LogLevelDebug), fonts.DefaultFont(), 2)
}

func newSingleSymbolLayer(name string, geometryType ownmap.GeometryType, symbolLayer *styling.SymbolLayer, features ...*ownmap.Feature) *ownmaprenderer.VectorLayer {
	return &ownmaprenderer.VectorLayer{
		Name:         name,
		GeometryType: geometryType,
		Features:     features,
		Style: &styling.LayerStyle{
			Renderer: &styling.SingleSymbolRenderer{Symbol: &styling.Symbol{
				Opacity: 1,
				Layers:  []*styling.SymbolLayer{symbolLayer},
			}},
			Opacity: 1,
		},
	}
}

func leftHalfPolygonLayer() *ownmaprenderer.VectorLayer {
	return newSingleSymbolLayer("polygons", ownmap.GeometryTypePolygon, &styling.SymbolLayer{
		Class:     styling.SymbolLayerClassSimpleFill,
		FillColor: red,
	}, &ownmap.Feature{
		Geometry: orb.Polygon{{{0, 0}, {10, 0}, {10, 20}, {0, 20}, {0, 0}}},
	})
}

func rgba(c color.Color) []uint32 {
	r, g, b, a := c.RGBA()
	return []uint32{r, g, b, a}
}

func render(t *testing.T, settings *ownmaprenderer.MapSettings) image.Image {
	job := newTestRenderer().StartRender(testmocks.NewTracingContext(), settings)
	job.WaitForFinished()

	require.Nil(t, job.Err())
	img := job.RenderedImage()
	require.NotNil(t, img)

	return img
}

func TestRasterRenderer_StartRender_drawOrder(t *testing.T) {
	pointLayer := newSingleSymbolLayer("points", ownmap.GeometryTypePoint, &styling.SymbolLayer{
		Class:       styling.SymbolLayerClassSimpleMarker,
		FillColor:   blue,
		MarkerShape: styling.MarkerShapeSquare,
		MarkerSize:  styling.Pixels(4),
	}, &ownmap.Feature{Geometry: orb.Point{5, 10}})

	img := render(t, &ownmaprenderer.MapSettings{
		OutputSize: image.Pt(20, 20),
		OutputDPI:  96,
		Extent:     ownmap.NewBound(0, 0, 20, 20),
		Layers:     []*ownmaprenderer.VectorLayer{leftHalfPolygonLayer(), pointLayer},
	})

	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())

	// the point is drawn over the polygon
	assert.Equal(t, rgba(blue), rgba(img.At(5, 10)))
	assert.Equal(t, rgba(red), rgba(img.At(2, 2)))
	assert.Equal(t, rgba(color.Transparent), rgba(img.At(15, 10)))
}

func TestRasterRenderer_StartRender_layerOpacity(t *testing.T) {
	layer := leftHalfPolygonLayer()
	layer.Style.Opacity = 0.5

	img := render(t, &ownmaprenderer.MapSettings{
		OutputSize: image.Pt(20, 20),
		OutputDPI:  96,
		Extent:     ownmap.NewBound(0, 0, 20, 20),
		Layers:     []*ownmaprenderer.VectorLayer{layer},
	})

	assert.Equal(t, []uint32{0x8080, 0, 0, 0x8080}, rgba(img.At(2, 2)))
}

func TestRasterRenderer_StartRender_nothingShown(t *testing.T) {
	// a renderer that hides every feature
	layer := leftHalfPolygonLayer()
	layer.Style.Renderer = &styling.NullSymbolRenderer{}

	img := render(t, &ownmaprenderer.MapSettings{
		OutputSize: image.Pt(20, 20),
		OutputDPI:  96,
		Extent:     ownmap.NewBound(0, 0, 20, 20),
		Layers:     []*ownmaprenderer.VectorLayer{layer},
	})

	assert.Equal(t, rgba(color.Transparent), rgba(img.At(2, 2)))
}

func TestRasterRenderer_StartRender_featuresOutsideTheExtent(t *testing.T) {
	img := render(t, &ownmaprenderer.MapSettings{
		OutputSize:      image.Pt(4, 2),
		OutputDPI:       96,
		Extent:          ownmap.NewBound(100, 100, 104, 102),
		Layers:          []*ownmaprenderer.VectorLayer{leftHalfPolygonLayer()},
		BackgroundColor: color.White,
	})

	snapshot.AssertMatchesSnapshot(t, "features outside the extent", snapshot.NewImageSnapshot(img))
}

func TestRasterRenderer_StartRender_labels(t *testing.T) {
	layer := newSingleSymbolLayer("points", ownmap.GeometryTypePoint, &styling.SymbolLayer{
		Class:       styling.SymbolLayerClassSimpleMarker,
		MarkerShape: styling.MarkerShapeCircle,
		MarkerSize:  styling.Pixels(0),
	}, &ownmap.Feature{Geometry: orb.Point{50, 20}, Properties: map[string]interface{}{"name": "Oslo"}})
	layer.Style.Labeling = &styling.Labeling{
		FieldName: "name",
		FontSize:  styling.Pixels(16),
		Color:     color.Black,
	}

	img := render(t, &ownmaprenderer.MapSettings{
		OutputSize: image.Pt(100, 40),
		OutputDPI:  96,
		Extent:     ownmap.NewBound(0, 0, 100, 40),
		Layers:     []*ownmaprenderer.VectorLayer{layer},
	})

	// some of the text is drawn just above the anchor, and nothing far away from it
	var textPixels int
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			textPixels++
			assert.True(t, x > 20 && x < 80, "unexpected pixel drawn at x=%d", x)
		}
	}
	assert.NotZero(t, textPixels)
}

func TestRasterRenderer_StartRender_invalidSettings(t *testing.T) {
	job := newTestRenderer().StartRender(testmocks.NewTracingContext(), &ownmaprenderer.MapSettings{
		OutputSize: image.Pt(0, 20),
		OutputDPI:  96,
	})

	select {
	case <-job.Finished():
	default:
		t.Fatal("expected the job to be finished straight away")
	}

	assert.NotNil(t, job.Err())
	assert.Nil(t, job.RenderedImage())
}
