package rendergeojson

import (
	"strings"
)

// StyleTypePlaceholder in a style reference is replaced by the layer name, to give each geometry type its own style document
const StyleTypePlaceholder = "$type"

const (
	LayerNamePolygons = "polygons"
	LayerNameLines    = "lines"
	LayerNamePoints   = "points"
)

type StyleRefs struct {
	Polygons string
	Lines    string
	Points   string
	// Shared is true when all the layers use the same style reference, which then only needs resolving once
	Shared bool
}

func ExpandStyleRefs(styleRef string) StyleRefs {
	if !strings.Contains(styleRef, StyleTypePlaceholder) {
		return StyleRefs{
			Polygons: styleRef,
			Lines:    styleRef,
			Points:   styleRef,
			Shared:   true,
		}
	}

	return StyleRefs{
		Polygons: strings.ReplaceAll(styleRef, StyleTypePlaceholder, LayerNamePolygons),
		Lines:    strings.ReplaceAll(styleRef, StyleTypePlaceholder, LayerNameLines),
		Points:   strings.ReplaceAll(styleRef, StyleTypePlaceholder, LayerNamePoints),
	}
}
