package ownmap

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/paulmach/orb"
)

// GeometryType is the geometry-type projection that a vector layer is filtered to.
type GeometryType string

const (
	GeometryTypeUnknown GeometryType = ""
	GeometryTypePolygon GeometryType = "Polygon"
	GeometryTypeLine    GeometryType = "Line"
	GeometryTypePoint   GeometryType = "Point"
)

// GeometryTypes is the draw order of the layer stack, bottom first
var GeometryTypes = []GeometryType{
	GeometryTypePolygon,
	GeometryTypeLine,
	GeometryTypePoint,
}

func ParseGeometryType(s string) (GeometryType, errorsx.Error) {
	for _, geometryType := range GeometryTypes {
		if string(geometryType) == s {
			return geometryType, nil
		}
	}

	return GeometryTypeUnknown, errorsx.Errorf("unknown geometry type: %q", s)
}

// GeometryTypeOf returns which layer geometry type a geometry belongs to.
// Collections don't belong to a single type and return GeometryTypeUnknown.
func GeometryTypeOf(geometry orb.Geometry) GeometryType {
	switch geometry.(type) {
	case orb.Polygon, orb.MultiPolygon, orb.Ring:
		return GeometryTypePolygon
	case orb.LineString, orb.MultiLineString:
		return GeometryTypeLine
	case orb.Point, orb.MultiPoint:
		return GeometryTypePoint
	default:
		return GeometryTypeUnknown
	}
}

type Feature struct {
	Geometry   orb.Geometry
	Properties map[string]interface{}
}
