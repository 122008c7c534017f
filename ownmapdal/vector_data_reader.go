package ownmapdal

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	// DriverOGR is the data-source driver hint layers are created with. Only GeoJSON files are understood by it.
	DriverOGR     = "ogr"
	DriverGeoJSON = "geojson"
)

// VectorDataReader reads the features of a layer source, filtered to the source's geometry type
type VectorDataReader interface {
	ReadFeatures(source LayerSource, driverName string) ([]*ownmap.Feature, errorsx.Error)
}

// Driver decodes all the features of a vector file
type Driver interface {
	Decode(data []byte) ([]*ownmap.Feature, errorsx.Error)
}

type DefaultVectorDataReader struct {
	fs      gofs.Fs
	drivers map[string]Driver
}

func NewDefaultVectorDataReader(fs gofs.Fs) *DefaultVectorDataReader {
	geoJSONDriver := &GeoJSONDriver{}
	return &DefaultVectorDataReader{
		fs: fs,
		drivers: map[string]Driver{
			DriverOGR:     geoJSONDriver,
			DriverGeoJSON: geoJSONDriver,
		},
	}
}

func (r *DefaultVectorDataReader) DriverNames() []string {
	var names []string
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *DefaultVectorDataReader) ReadFeatures(source LayerSource, driverName string) ([]*ownmap.Feature, errorsx.Error) {
	driver, ok := r.drivers[strings.ToLower(driverName)]
	if !ok {
		return nil, errorsx.Errorf("unknown data source driver: %q", driverName)
	}

	geometryType, err := source.GeometryType()
	if err != nil {
		return nil, errorsx.Wrap(err, "source", source.String())
	}

	data, readErr := r.fs.ReadFile(source.Path)
	if readErr != nil {
		return nil, errorsx.Wrap(readErr, "path", source.Path)
	}

	features, err := driver.Decode(data)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", source.Path)
	}

	return FilterFeatures(features, geometryType), nil
}

// FilterFeatures returns the features that have the geometry type. Collections are split up into their members first.
// GeometryTypeUnknown passes every feature through.
func FilterFeatures(features []*ownmap.Feature, geometryType ownmap.GeometryType) []*ownmap.Feature {
	var filtered []*ownmap.Feature
	for _, feature := range features {
		for _, geometry := range flattenCollection(feature.Geometry) {
			if geometryType != ownmap.GeometryTypeUnknown && ownmap.GeometryTypeOf(geometry) != geometryType {
				continue
			}

			filtered = append(filtered, &ownmap.Feature{
				Geometry:   geometry,
				Properties: feature.Properties,
			})
		}
	}
	return filtered
}

func flattenCollection(geometry orb.Geometry) []orb.Geometry {
	switch g := geometry.(type) {
	case nil:
		return nil
	case orb.Collection:
		var geometries []orb.Geometry
		for _, member := range g {
			geometries = append(geometries, flattenCollection(member)...)
		}
		return geometries
	default:
		return []orb.Geometry{g}
	}
}

type GeoJSONDriver struct{}

// Decode reads a FeatureCollection, a single Feature, or a bare geometry
func (d *GeoJSONDriver) Decode(data []byte) ([]*ownmap.Feature, errorsx.Error) {
	var typeOnly struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(data, &typeOnly)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	switch typeOnly.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		var features []*ownmap.Feature
		for _, f := range fc.Features {
			features = append(features, newFeatureFromGeoJSON(f))
		}
		return features, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
		return []*ownmap.Feature{newFeatureFromGeoJSON(f)}, nil
	case "":
		return nil, errorsx.Errorf("no GeoJSON type found")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errorsx.Wrap(err, "type", typeOnly.Type)
		}
		return []*ownmap.Feature{{Geometry: g.Geometry(), Properties: map[string]interface{}{}}}, nil
	}
}

func newFeatureFromGeoJSON(f *geojson.Feature) *ownmap.Feature {
	properties := map[string]interface{}(f.Properties)
	if properties == nil {
		properties = make(map[string]interface{})
	}

	return &ownmap.Feature{
		Geometry:   f.Geometry,
		Properties: properties,
	}
}
