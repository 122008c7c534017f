package rendergeojson

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmapdal"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmaprenderer"
)

// LayerStylePaths are the local paths of the style documents for each layer
type LayerStylePaths struct {
	Polygons string
	Lines    string
	Points   string
}

// AssembleLayers creates the polygon, line and point layers over the dataset, each styled with its own document. They are returned in draw order, bottom first.
func AssembleLayers(fs gofs.Fs, reader ownmapdal.VectorDataReader, datasetPath string, stylePaths LayerStylePaths) ([]*ownmaprenderer.VectorLayer, errorsx.Error) {
	layerDefs := []struct {
		name         string
		geometryType ownmap.GeometryType
		stylePath    string
	}{
		{LayerNamePolygons, ownmap.GeometryTypePolygon, stylePaths.Polygons},
		{LayerNameLines, ownmap.GeometryTypeLine, stylePaths.Lines},
		{LayerNamePoints, ownmap.GeometryTypePoint, stylePaths.Points},
	}

	var layers []*ownmaprenderer.VectorLayer
	for _, layerDef := range layerDefs {
		source := ownmapdal.NewLayerSource(datasetPath, layerDef.geometryType)

		layer, err := ownmaprenderer.NewVectorLayer(reader, source, layerDef.name, ownmapdal.DriverOGR)
		if err != nil {
			return nil, err
		}

		err = LoadStyle(fs, layer, layerDef.stylePath)
		if err != nil {
			return nil, errorsx.Wrap(err, "layer", layerDef.name)
		}

		layers = append(layers, layer)
	}

	return layers, nil
}
