package rendergeojson

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-rendergeojson/fonts"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap/maprenderer"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap/testmocks"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmapdal"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmaprenderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `{"type": "FeatureCollection", "features": [
	{"type": "Feature", "properties": {"landuse": "forest"}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[5,0],[5,5],[0,5],[0,0]]]}},
	{"type": "Feature", "properties": {"highway": "primary"}, "geometry": {"type": "LineString", "coordinates": [[0,0],[10,10]]}},
	{"type": "Feature", "properties": {"name": "well"}, "geometry": {"type": "Point", "coordinates": [7,3]}}
]}`

const testStyle = `<qgis><renderer-v2 type="singleSymbol"><symbols><symbol name="0" alpha="1">
	<layer class="SimpleFill"><prop k="color" v="0,128,0,255"/></layer>
	<layer class="SimpleLine"><prop k="line_color" v="255,0,0,255"/></layer>
	<layer class="SimpleMarker"><prop k="color" v="0,0,255,255"/></layer>
</symbol></symbols></renderer-v2></qgis>`

// pipelineTestEnv has a prefix dir at /data holding the dataset and a style, and serves .qml files over http
type pipelineTestEnv struct {
	fs          mockfs.MockFs
	mu          sync.Mutex
	requestURLs []string
}

func newPipelineTestEnv(t *testing.T) *pipelineTestEnv {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.MkdirAll("/data/styles", 0755))
	require.NoError(t, fs.WriteFile("/data/data.geojson", []byte(testDataset), 0644))
	require.NoError(t, fs.WriteFile("/data/styles/style.qml", []byte(testStyle), 0644))
	require.NoError(t, fs.WriteFile("/data/styles/broken.qml", []byte("<qgis><renderer-v2>"), 0644))

	return &pipelineTestEnv{fs: fs}
}

func (env *pipelineTestEnv) Do(req *http.Request) (*http.Response, error) {
	env.mu.Lock()
	env.requestURLs = append(env.requestURLs, req.URL.String())
	env.mu.Unlock()

	if !strings.HasSuffix(req.URL.Path, ".qml") {
		return &http.Response{StatusCode: http.StatusNotFound, Header: make(http.Header), Body: io.NopCloser(strings.NewReader("not found"))}, nil
	}

	return &http.Response{StatusCode: http.StatusOK, Header: make(http.Header), Body: io.NopCloser(strings.NewReader(testStyle))}, nil
}

func (env *pipelineTestEnv) newPipeline(renderer maprenderer.MapRenderer) *Pipeline {
	logger := logpkg.NewLogger(io.Discard, logpkg.LogLevelDebug)
	resolver := ownmapdal.NewResolver(logger, env.fs, env, &ownmapdal.PathsConfig{LocalPrefixDir: "/data", TempDir: "/tmp"})

	return NewPipeline(logger, env.fs, resolver, ownmapdal.NewDefaultVectorDataReader(env.fs), renderer)
}

func (env *pipelineTestEnv) assertNoTempFilesLeft(t *testing.T) {
	entries, _ := env.fs.ReadDir("/tmp")
	assert.Empty(t, entries)
}

func requestParams(styleRef string) map[string]string {
	return map[string]string{
		ParamGeoJSON: "data.geojson",
		ParamStyle:   styleRef,
		ParamWidth:   "40",
		ParamHeight:  "20",
		ParamBBox:    "0,0,10,10",
	}
}

func TestPipeline_Render(t *testing.T) {
	env := newPipelineTestEnv(t)
	logger := logpkg.NewLogger(io.Discard, logpkg.LogLevelDebug)
	pipeline := env.newPipeline(ownmaprenderer.NewRasterRenderer(logger, fonts.DefaultFont(), 2))

	output, err := pipeline.Render(testmocks.NewTracingContext(), requestParams("styles/style.qml"))
	require.Nil(t, err)

	assert.Equal(t, "image/png", output.ContentType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, output.Body[:8])

	// pHYs chunk straight after IHDR, at 96 dpi
	assert.Equal(t, "pHYs", string(output.Body[37:41]))
	assert.Equal(t, uint32(3779), binary.BigEndian.Uint32(output.Body[41:45]))
	assert.Equal(t, uint32(3779), binary.BigEndian.Uint32(output.Body[45:49]))

	img, decodeErr := png.Decode(bytes.NewReader(output.Body))
	require.NoError(t, decodeErr)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())

	// everything came from the local prefix
	assert.Empty(t, env.requestURLs)
}

func TestPipeline_Render_settings(t *testing.T) {
	env := newPipelineTestEnv(t)
	renderer := &testmocks.MockMapRenderer{}

	params := requestParams("styles/style.qml")
	params[ParamDPI] = "150"

	_, err := env.newPipeline(renderer).Render(testmocks.NewTracingContext(), params)
	require.Nil(t, err)

	require.Equal(t, 1, renderer.CallCount())
	settings := renderer.Settings[0]
	assert.Equal(t, image.Pt(40, 20), settings.OutputSize)
	assert.Equal(t, 150, settings.OutputDPI)
	assert.Equal(t, 10.0, settings.Extent.Max.X())

	_, _, _, a := settings.BackgroundColor.RGBA()
	assert.Equal(t, uint32(0), a)

	require.Len(t, settings.Layers, 3)
	for i, name := range []string{"polygons", "lines", "points"} {
		layer := settings.Layers[i]
		assert.Equal(t, name, layer.Name)
		assert.Equal(t, "ogr", layer.Provider)
		assert.Len(t, layer.Features, 1)
	}
	assert.Equal(t, "/data/data.geojson|geometrytype=Polygon", settings.Layers[0].Source.String())
	assert.Equal(t, "/data/data.geojson|geometrytype=Point", settings.Layers[2].Source.String())

	// every layer has its own style, even from the same document
	assert.NotSame(t, settings.Layers[0].Style, settings.Layers[1].Style)
}

func TestPipeline_Render_styleResolutions(t *testing.T) {
	tests := []struct {
		name     string
		styleRef string
		wantURLs []string
	}{
		{
			name:     "one style for every layer",
			styleRef: "http://styles.example.com/style.qml",
			wantURLs: []string{"http://styles.example.com/style.qml"},
		}, {
			name:     "one style per layer",
			styleRef: "http://styles.example.com/$type.qml",
			wantURLs: []string{
				"http://styles.example.com/polygons.qml",
				"http://styles.example.com/lines.qml",
				"http://styles.example.com/points.qml",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newPipelineTestEnv(t)
			renderer := &testmocks.MockMapRenderer{}

			_, err := env.newPipeline(renderer).Render(testmocks.NewTracingContext(), requestParams(tt.styleRef))
			require.Nil(t, err)

			assert.Equal(t, tt.wantURLs, env.requestURLs)
			assert.Equal(t, 1, renderer.CallCount())
			env.assertNoTempFilesLeft(t)
		})
	}
}

func TestPipeline_Render_failures(t *testing.T) {
	type args struct {
		params   map[string]string
		renderer *testmocks.MockMapRenderer
	}
	tests := []struct {
		name            string
		args            args
		wantValidation  bool
		wantResolution  bool
		wantRenderCalls int
	}{
		{
			name:           "validation",
			args:           args{params: map[string]string{ParamGeoJSON: "data.geojson"}, renderer: &testmocks.MockMapRenderer{}},
			wantValidation: true,
		}, {
			name:           "dataset can't be resolved",
			args:           args{params: paramsWithGeoJSON("missing.geojson"), renderer: &testmocks.MockMapRenderer{}},
			wantResolution: true,
		}, {
			name:           "one of the styles can't be downloaded",
			args:           args{params: requestParams("http://styles.example.com/$type.sld"), renderer: &testmocks.MockMapRenderer{}},
			wantResolution: true,
		}, {
			name: "broken style document",
			args: args{params: requestParams("styles/broken.qml"), renderer: &testmocks.MockMapRenderer{}},
		}, {
			name: "render fails",
			args: args{params: requestParams("http://styles.example.com/style.qml"), renderer: &testmocks.MockMapRenderer{
				StartRenderFunc: func(settings *ownmaprenderer.MapSettings) (image.Image, errorsx.Error) {
					return nil, errorsx.Errorf("out of memory")
				},
			}},
			wantRenderCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newPipelineTestEnv(t)

			output, err := env.newPipeline(tt.args.renderer).Render(testmocks.NewTracingContext(), tt.args.params)
			require.NotNil(t, err)
			assert.Nil(t, output)

			_, isValidation := errorsx.Cause(err).(*ValidationError)
			assert.Equal(t, tt.wantValidation, isValidation)

			_, isResolution := errorsx.Cause(err).(*ownmapdal.ResolutionError)
			assert.Equal(t, tt.wantResolution, isResolution)

			assert.Equal(t, tt.wantRenderCalls, tt.args.renderer.CallCount())
			env.assertNoTempFilesLeft(t)
		})
	}
}

func TestPipeline_Render_validationFailureTouchesNothing(t *testing.T) {
	env := newPipelineTestEnv(t)
	renderer := &testmocks.MockMapRenderer{}

	params := requestParams("http://styles.example.com/style.qml")
	params[ParamBBox] = "1,2,3"

	_, err := env.newPipeline(renderer).Render(testmocks.NewTracingContext(), params)
	require.NotNil(t, err)
	assert.Equal(t, "Parameter BBOX must be specified in the form `min_x,min_y,max_x,max_y`.", errorsx.Cause(err).Error())

	assert.Empty(t, env.requestURLs)
	assert.Equal(t, 0, renderer.CallCount())
}

func paramsWithGeoJSON(geoJSONRef string) map[string]string {
	params := requestParams("styles/style.qml")
	params[ParamGeoJSON] = geoJSONRef
	return params
}

func spanNames(trace *tracing.Trace) []string {
	var names []string
	for _, span := range trace.Spans {
		names = append(names, span.Name)
	}
	return names
}

func TestPipeline_Render_spansEndedOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		params    map[string]string
		renderer  *testmocks.MockMapRenderer
		wantSpans []string
	}{
		{
			name:      "success",
			params:    requestParams("styles/style.qml"),
			renderer:  &testmocks.MockMapRenderer{},
			wantSpans: []string{"resolve resources", "load layers", "render", "encode png"},
		}, {
			name:      "resolution fails",
			params:    paramsWithGeoJSON("missing.geojson"),
			renderer:  &testmocks.MockMapRenderer{},
			wantSpans: []string{"resolve resources"},
		}, {
			name:      "style fails to load",
			params:    requestParams("styles/broken.qml"),
			renderer:  &testmocks.MockMapRenderer{},
			wantSpans: []string{"resolve resources", "load layers"},
		}, {
			name:   "render fails",
			params: requestParams("styles/style.qml"),
			renderer: &testmocks.MockMapRenderer{
				StartRenderFunc: func(settings *ownmaprenderer.MapSettings) (image.Image, errorsx.Error) {
					return nil, errorsx.Errorf("out of memory")
				},
			},
			wantSpans: []string{"resolve resources", "load layers", "render"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newPipelineTestEnv(t)
			ctx, trace := testmocks.NewTracingContextWithTrace()

			_, _ = env.newPipeline(tt.renderer).Render(ctx, tt.params)

			assert.Equal(t, tt.wantSpans, spanNames(trace))
		})
	}
}
