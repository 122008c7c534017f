package ownmapdal

import (
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
)

const (
	LayerSourceSeparator     = "|"
	LayerSourceGeometryType  = "geometrytype"
	LayerSourceKeyValueSplit = "="
)

// LayerSource is a data source URI of a vector layer, for example `data.geojson|geometrytype=Polygon`
type LayerSource struct {
	Path    string
	Options map[string]string
}

func NewLayerSource(path string, geometryType ownmap.GeometryType) LayerSource {
	return LayerSource{
		Path: path,
		Options: map[string]string{
			LayerSourceGeometryType: string(geometryType),
		},
	}
}

func (ls LayerSource) String() string {
	fragments := []string{ls.Path}
	// only option understood so far
	if geometryType, ok := ls.Options[LayerSourceGeometryType]; ok {
		fragments = append(fragments, LayerSourceGeometryType+LayerSourceKeyValueSplit+geometryType)
	}
	return strings.Join(fragments, LayerSourceSeparator)
}

func (ls LayerSource) GeometryType() (ownmap.GeometryType, errorsx.Error) {
	geometryTypeStr, ok := ls.Options[LayerSourceGeometryType]
	if !ok {
		return ownmap.GeometryTypeUnknown, nil
	}

	return ownmap.ParseGeometryType(geometryTypeStr)
}

func ParseLayerSource(str string) (LayerSource, errorsx.Error) {
	fragments := strings.Split(str, LayerSourceSeparator)
	if fragments[0] == "" {
		return LayerSource{}, errorsx.Errorf("no path in layer source %q", str)
	}

	source := LayerSource{
		Path:    fragments[0],
		Options: make(map[string]string),
	}

	for _, fragment := range fragments[1:] {
		idx := strings.Index(fragment, LayerSourceKeyValueSplit)
		if idx < 0 {
			return LayerSource{}, errorsx.Errorf("couldn't find %q in layer source option %q", LayerSourceKeyValueSplit, fragment)
		}

		source.Options[strings.ToLower(fragment[:idx])] = fragment[idx+1:]
	}

	return source, nil
}
