package rendergeojson

import (
	"context"
	"image"
	"image/color"

	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/humanise"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap/maprenderer"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmapdal"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmaprenderer"
)

const ContentTypePNG = "image/png"

type RenderOutput struct {
	ContentType string
	Body        []byte
}

type Resolver interface {
	Resolve(ctx context.Context, ref string) (*ownmapdal.ResolvedResource, errorsx.Error)
}

// Pipeline turns the parameters of a render request into a PNG image
type Pipeline struct {
	logger   *logpkg.Logger
	fs       gofs.Fs
	resolver Resolver
	reader   ownmapdal.VectorDataReader
	renderer maprenderer.MapRenderer
}

func NewPipeline(logger *logpkg.Logger, fs gofs.Fs, resolver Resolver, reader ownmapdal.VectorDataReader, renderer maprenderer.MapRenderer) *Pipeline {
	return &Pipeline{logger, fs, resolver, reader, renderer}
}

// Render validates the parameters, fetches the dataset and style documents, and draws and encodes the map.
// Downloaded files are removed before it returns. The context must carry a tracer.
func (p *Pipeline) Render(ctx context.Context, params map[string]string) (*RenderOutput, errorsx.Error) {
	req, err := ParseRenderRequest(params)
	if err != nil {
		return nil, err
	}

	var resources []*ownmapdal.ResolvedResource
	defer func() {
		p.release(resources)
	}()

	datasetPath, stylePaths, resources, err := p.resolveResources(ctx, req)
	if err != nil {
		return nil, err
	}

	layers, err := p.loadLayers(ctx, datasetPath, stylePaths)
	if err != nil {
		return nil, err
	}

	settings := &ownmaprenderer.MapSettings{
		OutputSize:      image.Pt(req.Width, req.Height),
		OutputDPI:       req.DPI,
		Extent:          req.BBox,
		Layers:          layers,
		BackgroundColor: color.Transparent,
	}

	img, err := p.render(ctx, settings)
	if err != nil {
		return nil, err
	}

	body, err := p.encode(ctx, img, req.DPI)
	if err != nil {
		return nil, err
	}

	p.logger.Info("rendered %q with %q at %dx%d (%d dpi): %s", req.GeoJSONRef, req.StyleRef, req.Width, req.Height, req.DPI, humanise.HumaniseBytes(int64(len(body))))

	return &RenderOutput{
		ContentType: ContentTypePNG,
		Body:        body,
	}, nil
}

// resolveResources returns everything it resolved, even when it fails part way, so the caller can release them
func (p *Pipeline) resolveResources(ctx context.Context, req RenderRequest) (string, LayerStylePaths, []*ownmapdal.ResolvedResource, errorsx.Error) {
	span := tracing.StartSpan(ctx, "resolve resources")
	defer span.End(ctx)

	dataset, err := p.resolver.Resolve(ctx, req.GeoJSONRef)
	if err != nil {
		return "", LayerStylePaths{}, nil, err
	}
	resources := []*ownmapdal.ResolvedResource{dataset}

	stylePaths, styleResources, err := p.resolveStyles(ctx, ExpandStyleRefs(req.StyleRef))
	resources = append(resources, styleResources...)
	if err != nil {
		return "", LayerStylePaths{}, resources, err
	}

	return dataset.LocalPath, stylePaths, resources, nil
}

func (p *Pipeline) loadLayers(ctx context.Context, datasetPath string, stylePaths LayerStylePaths) ([]*ownmaprenderer.VectorLayer, errorsx.Error) {
	span := tracing.StartSpan(ctx, "load layers")
	defer span.End(ctx)

	return AssembleLayers(p.fs, p.reader, datasetPath, stylePaths)
}

func (p *Pipeline) render(ctx context.Context, settings *ownmaprenderer.MapSettings) (image.Image, errorsx.Error) {
	span := tracing.StartSpan(ctx, "render")
	defer span.End(ctx)

	job := p.renderer.StartRender(ctx, settings)
	job.WaitForFinished()
	err := job.Err()
	if err != nil {
		return nil, err
	}

	img := job.RenderedImage()
	if img == nil {
		return nil, errorsx.Errorf("the render finished without an image")
	}

	return img, nil
}

func (p *Pipeline) encode(ctx context.Context, img image.Image, dpi int) ([]byte, errorsx.Error) {
	span := tracing.StartSpan(ctx, "encode png")
	defer span.End(ctx)

	return ownmaprenderer.EncodePNG(img, ownmaprenderer.DotsPerMeter(dpi))
}

// resolveStyles resolves the shared style reference once, or each layer's reference on its own
func (p *Pipeline) resolveStyles(ctx context.Context, refs StyleRefs) (LayerStylePaths, []*ownmapdal.ResolvedResource, errorsx.Error) {
	if refs.Shared {
		resource, err := p.resolver.Resolve(ctx, refs.Polygons)
		if err != nil {
			return LayerStylePaths{}, nil, err
		}

		return LayerStylePaths{
			Polygons: resource.LocalPath,
			Lines:    resource.LocalPath,
			Points:   resource.LocalPath,
		}, []*ownmapdal.ResolvedResource{resource}, nil
	}

	var resources []*ownmapdal.ResolvedResource
	var localPaths []string
	for _, ref := range []string{refs.Polygons, refs.Lines, refs.Points} {
		resource, err := p.resolver.Resolve(ctx, ref)
		if err != nil {
			return LayerStylePaths{}, resources, err
		}
		resources = append(resources, resource)
		localPaths = append(localPaths, resource.LocalPath)
	}

	return LayerStylePaths{
		Polygons: localPaths[0],
		Lines:    localPaths[1],
		Points:   localPaths[2],
	}, resources, nil
}

func (p *Pipeline) release(resources []*ownmapdal.ResolvedResource) {
	for _, resource := range resources {
		err := resource.Release()
		if err != nil {
			p.logger.Warn("couldn't release %q (local path %q): %q", resource.Ref, resource.LocalPath, err)
		}
	}
}

