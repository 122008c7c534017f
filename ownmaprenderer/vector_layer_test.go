package ownmaprenderer

import (
	"strings"
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmapdal"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeatureCollection = `{"type": "FeatureCollection", "features": [
	{"type": "Feature", "properties": {"name": "well"}, "geometry": {"type": "Point", "coordinates": [2, 2]}},
	{"type": "Feature", "properties": {"name": "road"}, "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}
]}`

func newTestLayer(t *testing.T) *VectorLayer {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.WriteFile("/data/test.geojson", []byte(testFeatureCollection), 0644))

	layer, err := NewVectorLayer(
		ownmapdal.NewDefaultVectorDataReader(fs),
		ownmapdal.NewLayerSource("/data/test.geojson", ownmap.GeometryTypePoint),
		"points",
		ownmapdal.DriverOGR,
	)
	require.Nil(t, err)

	return layer
}

func readElement(t *testing.T, doc string) *styling.Element {
	root, err := styling.ReadDocument(strings.NewReader(doc))
	require.Nil(t, err)
	return root
}

func TestNewVectorLayer(t *testing.T) {
	layer := newTestLayer(t)

	assert.Equal(t, "points", layer.Name)
	assert.Equal(t, ownmapdal.DriverOGR, layer.Provider)
	assert.Equal(t, ownmap.GeometryTypePoint, layer.GeometryType)
	require.Len(t, layer.Features, 1)

	name, _ := layer.Features[0].PropertyString("name")
	assert.Equal(t, "well", name)

	assert.IsType(t, &styling.SingleSymbolRenderer{}, layer.Style.Renderer)
}

func TestNewVectorLayer_missingFile(t *testing.T) {
	_, err := NewVectorLayer(
		ownmapdal.NewDefaultVectorDataReader(mockfs.NewMockFs()),
		ownmapdal.NewLayerSource("/data/missing.geojson", ownmap.GeometryTypePoint),
		"points",
		ownmapdal.DriverOGR,
	)
	assert.NotNil(t, err)
}

func TestVectorLayer_ReadStyle(t *testing.T) {
	t.Run("qml", func(t *testing.T) {
		layer := newTestLayer(t)
		err := layer.ReadStyle(readElement(t, `<qgis><renderer-v2 type="nullSymbol"/><layerOpacity>0.2</layerOpacity></qgis>`))
		require.Nil(t, err)

		assert.IsType(t, &styling.NullSymbolRenderer{}, layer.Style.Renderer)
		assert.Equal(t, 0.2, layer.Style.Opacity)
	})

	t.Run("qml without a renderer keeps the current renderer", func(t *testing.T) {
		layer := newTestLayer(t)
		renderer := layer.Style.Renderer

		err := layer.ReadStyle(readElement(t, `<qgis><layerOpacity>0.7</layerOpacity></qgis>`))
		require.Nil(t, err)

		assert.Equal(t, renderer, layer.Style.Renderer)
		assert.Equal(t, 0.7, layer.Style.Opacity)
	})

	t.Run("sld", func(t *testing.T) {
		layer := newTestLayer(t)
		err := layer.ReadStyle(readElement(t, `<StyledLayerDescriptor><NamedLayer><UserStyle><FeatureTypeStyle><Rule>
			<PointSymbolizer><Graphic><Mark><WellKnownName>star</WellKnownName></Mark></Graphic></PointSymbolizer>
		</Rule></FeatureTypeStyle></UserStyle></NamedLayer></StyledLayerDescriptor>`))
		require.Nil(t, err)

		assert.IsType(t, &styling.RuleBasedRenderer{}, layer.Style.Renderer)
	})

	t.Run("unknown document", func(t *testing.T) {
		layer := newTestLayer(t)
		err := layer.ReadStyle(readElement(t, `<html><body/></html>`))
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "unsupported style document root element")
	})
}
