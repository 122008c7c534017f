package testmocks

import (
	"context"
	"image"
	"sync"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmaprenderer"
)

// MockMapRenderer records the settings it was asked to render, and finishes straight away with StartRenderFunc's result
type MockMapRenderer struct {
	StartRenderFunc func(settings *ownmaprenderer.MapSettings) (image.Image, errorsx.Error)

	mu       sync.Mutex
	Settings []*ownmaprenderer.MapSettings
}

func (r *MockMapRenderer) StartRender(ctx context.Context, settings *ownmaprenderer.MapSettings) *ownmaprenderer.ParallelJob {
	r.mu.Lock()
	r.Settings = append(r.Settings, settings)
	r.mu.Unlock()

	if r.StartRenderFunc == nil {
		return ownmaprenderer.NewFinishedJob(image.NewRGBA(image.Rect(0, 0, settings.OutputSize.X, settings.OutputSize.Y)), nil)
	}

	return ownmaprenderer.NewFinishedJob(r.StartRenderFunc(settings))
}

func (r *MockMapRenderer) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.Settings)
}
