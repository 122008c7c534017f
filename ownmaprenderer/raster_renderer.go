package ownmaprenderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/semaphore"
)

type RasterRenderer struct {
	logger *logpkg.Logger
	font   *truetype.Font
	sema   *semaphore.Semaphore
}

// NewRasterRenderer creates a renderer that draws at most maxConcurrentLayers layers at once, across all the jobs it starts
func NewRasterRenderer(logger *logpkg.Logger, font *truetype.Font, maxConcurrentLayers uint) *RasterRenderer {
	if maxConcurrentLayers == 0 {
		maxConcurrentLayers = 1
	}

	return &RasterRenderer{
		logger,
		font,
		semaphore.NewSemaphore(maxConcurrentLayers),
	}
}

// StartRender starts drawing the map in the background. Each layer is drawn on its own image, and the layer images are put on top of each other once they are all drawn.
// The context must carry a tracer.
func (rr *RasterRenderer) StartRender(ctx context.Context, settings *MapSettings) *ParallelJob {
	err := settings.Validate()
	if err != nil {
		return NewFinishedJob(nil, err)
	}

	job := newParallelJob()
	go rr.run(ctx, job, settings)

	return job
}

func (rr *RasterRenderer) run(ctx context.Context, job *ParallelJob, settings *MapSettings) {
	defer close(job.finished)

	span := tracing.StartSpan(ctx, "render map")
	defer span.End(ctx)

	size := image.Rect(0, 0, settings.OutputSize.X, settings.OutputSize.Y)

	layerImages := make([]*image.RGBA, len(settings.Layers))
	layerErrs := make([]errorsx.Error, len(settings.Layers))

	var wg sync.WaitGroup
	for i, layer := range settings.Layers {
		wg.Add(1)
		go func(i int, layer *VectorLayer) {
			defer wg.Done()

			rr.sema.Add()
			defer rr.sema.Done()

			layerSpan := tracing.StartSpan(ctx, fmt.Sprintf("render layer %q", layer.Name))
			defer layerSpan.End(ctx)

			layerImages[i], layerErrs[i] = rr.renderLayer(size, settings, layer)
		}(i, layer)
	}

	wg.Wait()

	for i, err := range layerErrs {
		if err != nil {
			job.err = errorsx.Wrap(err, "layer", settings.Layers[i].Name)
			return
		}
	}

	bgColor := settings.BackgroundColor
	if bgColor == nil {
		bgColor = color.Transparent
	}

	img := NewImageWithBackground(size, bgColor)
	for i, layerImage := range layerImages {
		drawWithOpacity(img, layerImage, settings.Layers[i].Style.Opacity)
	}

	rr.logger.Debug("rendered %d layers at %dx%d", len(settings.Layers), size.Dx(), size.Dy())

	job.img = img
}
