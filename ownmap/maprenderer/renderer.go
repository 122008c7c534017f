package maprenderer

import (
	"context"

	"github.com/jamesrr39/ownmap-rendergeojson/ownmaprenderer"
)

type MapRenderer interface {
	StartRender(ctx context.Context, settings *ownmaprenderer.MapSettings) *ownmaprenderer.ParallelJob
}
