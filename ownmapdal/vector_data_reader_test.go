package ownmapdal

import (
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedFeatureCollection = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "properties": {"name": "park"}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[4,0],[4,4],[0,4],[0,0]]]}},
		{"type": "Feature", "properties": {"name": "islands"}, "geometry": {"type": "MultiPolygon", "coordinates": [[[[5,5],[6,5],[6,6],[5,5]]]]}},
		{"type": "Feature", "properties": {"name": "road"}, "geometry": {"type": "LineString", "coordinates": [[0,0],[10,10]]}},
		{"type": "Feature", "properties": {"name": "well"}, "geometry": {"type": "Point", "coordinates": [2,2]}},
		{"type": "Feature", "properties": {"name": "mixed"}, "geometry": {"type": "GeometryCollection", "geometries": [
			{"type": "Point", "coordinates": [3,3]},
			{"type": "LineString", "coordinates": [[1,1],[2,1]]}
		]}}
	]
}`

func featureNames(features []*ownmap.Feature) []string {
	var names []string
	for _, feature := range features {
		name, _ := feature.PropertyString("name")
		names = append(names, name)
	}
	return names
}

func TestDefaultVectorDataReader_ReadFeatures(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.WriteFile("/data/mixed.geojson", []byte(mixedFeatureCollection), 0644))

	reader := NewDefaultVectorDataReader(fs)

	tests := []struct {
		geometryType ownmap.GeometryType
		want         []string
	}{
		{ownmap.GeometryTypePolygon, []string{"park", "islands"}},
		{ownmap.GeometryTypeLine, []string{"road", "mixed"}},
		{ownmap.GeometryTypePoint, []string{"well", "mixed"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.geometryType), func(t *testing.T) {
			features, err := reader.ReadFeatures(NewLayerSource("/data/mixed.geojson", tt.geometryType), DriverOGR)
			require.Nil(t, err)

			assert.Equal(t, tt.want, featureNames(features))
			for _, feature := range features {
				assert.Equal(t, tt.geometryType, ownmap.GeometryTypeOf(feature.Geometry))
			}
		})
	}
}

func TestDefaultVectorDataReader_ReadFeatures_errors(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.WriteFile("/data/broken.geojson", []byte(`{"type": "FeatureCollection", "features": [`), 0644))
	require.NoError(t, fs.WriteFile("/data/ok.geojson", []byte(mixedFeatureCollection), 0644))

	reader := NewDefaultVectorDataReader(fs)

	_, err := reader.ReadFeatures(NewLayerSource("/data/missing.geojson", ownmap.GeometryTypePoint), DriverOGR)
	assert.NotNil(t, err)

	_, err = reader.ReadFeatures(NewLayerSource("/data/broken.geojson", ownmap.GeometryTypePoint), DriverOGR)
	assert.NotNil(t, err)

	_, err = reader.ReadFeatures(NewLayerSource("/data/ok.geojson", ownmap.GeometryTypePoint), "postgres")
	assert.NotNil(t, err)
}

func TestGeoJSONDriver_Decode(t *testing.T) {
	driver := &GeoJSONDriver{}

	t.Run("single feature", func(t *testing.T) {
		features, err := driver.Decode([]byte(`{"type": "Feature", "properties": {"kind": "tree"}, "geometry": {"type": "Point", "coordinates": [1, 2]}}`))
		require.Nil(t, err)
		require.Len(t, features, 1)
		assert.Equal(t, orb.Point{1, 2}, features[0].Geometry)
		assert.Equal(t, "tree", features[0].Properties["kind"])
	})

	t.Run("bare geometry", func(t *testing.T) {
		features, err := driver.Decode([]byte(`{"type": "LineString", "coordinates": [[1, 2], [3, 4]]}`))
		require.Nil(t, err)
		require.Len(t, features, 1)
		assert.Equal(t, orb.LineString{{1, 2}, {3, 4}}, features[0].Geometry)
		assert.NotNil(t, features[0].Properties)
	})

	t.Run("no type", func(t *testing.T) {
		_, err := driver.Decode([]byte(`{"features": []}`))
		assert.NotNil(t, err)
	})
}

func TestFilterFeatures_unknownTypeKeepsEverything(t *testing.T) {
	features := []*ownmap.Feature{
		{Geometry: orb.Point{1, 1}},
		{Geometry: orb.Collection{orb.Point{2, 2}, orb.LineString{{0, 0}, {1, 1}}}},
	}

	filtered := FilterFeatures(features, ownmap.GeometryTypeUnknown)
	assert.Len(t, filtered, 3)
}
