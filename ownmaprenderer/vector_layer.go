package ownmaprenderer

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmapdal"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
	"github.com/jamesrr39/ownmap-rendergeojson/styling/qmlstyle"
	"github.com/jamesrr39/ownmap-rendergeojson/styling/sldstyle"
)

// VectorLayer is a named, styled view over the features of one geometry type in a data source
type VectorLayer struct {
	Name         string
	Source       ownmapdal.LayerSource
	Provider     string
	GeometryType ownmap.GeometryType
	Features     []*ownmap.Feature
	Style        *styling.LayerStyle
}

// NewVectorLayer reads the features of the source with the provider's driver. The layer starts with the default style for its geometry type.
func NewVectorLayer(reader ownmapdal.VectorDataReader, source ownmapdal.LayerSource, name, provider string) (*VectorLayer, errorsx.Error) {
	geometryType, err := source.GeometryType()
	if err != nil {
		return nil, errorsx.Wrap(err, "layer", name)
	}

	features, err := reader.ReadFeatures(source, provider)
	if err != nil {
		return nil, errorsx.Wrap(err, "layer", name)
	}

	return &VectorLayer{
		Name:         name,
		Source:       source,
		Provider:     provider,
		GeometryType: geometryType,
		Features:     features,
		Style:        styling.DefaultLayerStyle(geometryType),
	}, nil
}

// ReadStyle applies a QML or SLD style document to the layer. A document without a renderer keeps the layer's current one.
func (l *VectorLayer) ReadStyle(root *styling.Element) errorsx.Error {
	var style *styling.LayerStyle
	var err errorsx.Error

	switch root.Name() {
	case qmlstyle.RootElementName:
		style, err = qmlstyle.FromElement(root)
	case sldstyle.RootElementName:
		style, err = sldstyle.FromElement(root)
	default:
		return errorsx.Errorf("unsupported style document root element: %q", root.Name())
	}
	if err != nil {
		return errorsx.Wrap(err, "layer", l.Name)
	}

	if style.Renderer == nil {
		style.Renderer = l.Style.Renderer
	}

	l.Style = style

	return nil
}
