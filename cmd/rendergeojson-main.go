package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/userextra"
	"github.com/jamesrr39/ownmap-rendergeojson/fonts"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmapdal"
	"github.com/jamesrr39/ownmap-rendergeojson/ownmaprenderer"
	"github.com/jamesrr39/ownmap-rendergeojson/rendergeojson"
	"github.com/jamesrr39/ownmap-rendergeojson/webservices"
	"github.com/pkg/profile"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	DEFAULT_PORT           = 9000
	DEFAULT_RENDER_WORKERS = 4
)

var logger *logpkg.Logger

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

func main() {
	verbose := kingpin.Flag("v", "verbose logging").Bool()
	kingpin.CommandLine.PreAction(func(ctx *kingpin.ParseContext) error {
		logLevel := logpkg.LogLevelInfo
		if *verbose {
			logLevel = logpkg.LogLevelDebug
		}
		logger = logpkg.NewLogger(os.Stderr, logLevel)
		return nil
	})

	setupServe()
	setupRender()

	kingpin.Parse()
}

// commonFlags are the settings shared by the serve and render commands
type commonFlags struct {
	prefix        *string
	tmpDir        *string
	traceDir      *string
	renderWorkers *uint
	fetchTimeout  *time.Duration
	shouldProfile *bool
}

func addCommonFlags(cmd *kingpin.CmdClause) *commonFlags {
	return &commonFlags{
		prefix:        cmd.Flag("prefix", "local directory that file references are looked for in before they are downloaded").Envar("RENDERGEOJSON_PREFIX").String(),
		tmpDir:        cmd.Flag("tmp-dir", "directory downloaded files are written to while a request uses them. Defaults to the system temp dir").String(),
		traceDir:      cmd.Flag("trace-dir", "directory to write trace files to. Tracing is off if not set").String(),
		renderWorkers: cmd.Flag("render-workers", "maximum amount of layers being drawn at the same time").Default(fmt.Sprintf("%d", DEFAULT_RENDER_WORKERS)).Uint(),
		fetchTimeout:  cmd.Flag("fetch-timeout", "timeout for downloading a file reference. 0 means no timeout").Default("0s").Duration(),
		shouldProfile: cmd.Flag("profile", "write a CPU profile").Bool(),
	}
}

func (flags *commonFlags) pathsConfig() (*ownmapdal.PathsConfig, errorsx.Error) {
	pathsConfig := &ownmapdal.PathsConfig{}

	for _, pathPair := range []struct {
		flagValue string
		target    *string
	}{
		{*flags.prefix, &pathsConfig.LocalPrefixDir},
		{*flags.tmpDir, &pathsConfig.TempDir},
		{*flags.traceDir, &pathsConfig.TraceDir},
	} {
		if pathPair.flagValue == "" {
			continue
		}
		expanded, err := userextra.ExpandUser(pathPair.flagValue)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", pathPair.flagValue)
		}
		*pathPair.target = expanded
	}

	err := pathsConfig.EnsurePaths()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return pathsConfig, nil
}

func (flags *commonFlags) createPipeline(pathsConfig *ownmapdal.PathsConfig) *rendergeojson.Pipeline {
	fs := gofs.NewOsFs()
	client := &http.Client{
		Timeout: *flags.fetchTimeout,
	}

	resolver := ownmapdal.NewResolver(logger, fs, client, pathsConfig)
	renderer := ownmaprenderer.NewRasterRenderer(logger, fonts.DefaultFont(), *flags.renderWorkers)

	return rendergeojson.NewPipeline(logger, fs, resolver, ownmapdal.NewDefaultVectorDataReader(fs), renderer)
}

// createTracer writes to a new trace file in traceDir, or nowhere if traceDir is empty. closeFunc closes the trace file.
func createTracer(traceDir string) (tracer *tracing.Tracer, closeFunc func(), err errorsx.Error) {
	if traceDir == "" {
		return tracing.NewTracer(io.Discard), func() {}, nil
	}

	traceFilePath := filepath.Join(traceDir, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, goErr := os.Create(traceFilePath)
	if goErr != nil {
		return nil, nil, errorsx.Wrap(goErr)
	}

	closeFunc = func() {
		closeErr := traceFile.Close()
		if closeErr != nil {
			logger.Warn("couldn't close trace file %q: %q", traceFilePath, closeErr)
		}
	}

	return tracing.NewTracer(traceFile), closeFunc, nil
}

func setupServe() {
	cmd := kingpin.Command("serve", "serve the RENDERGEOJSON service")
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf(":%d", DEFAULT_PORT)).String()
	flags := addCommonFlags(cmd)
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			pathsConfig, err := flags.pathsConfig()
			if err != nil {
				return errorsx.Wrap(err)
			}

			if *flags.shouldProfile {
				defer profile.Start(profile.ProfilePath(pathsConfig.TraceDir), profile.CPUProfile).Stop()
			}

			tracer, closeTraceFile, err := createTracer(pathsConfig.TraceDir)
			if err != nil {
				return errorsx.Wrap(err)
			}
			defer closeTraceFile()

			info := &webservices.ServiceInfo{
				Service:               webservices.ServiceName,
				LocalPrefixConfigured: pathsConfig.LocalPrefixDir != "",
				RenderWorkers:         *flags.renderWorkers,
				StyleFormats:          []string{"qml", "sld"},
				Drivers:               ownmapdal.NewDefaultVectorDataReader(gofs.NewOsFs()).DriverNames(),
			}

			filter := webservices.NewRenderGeojsonFilter(logger, flags.createPipeline(pathsConfig))

			router := chi.NewRouter()
			router.Use(middleware.DefaultLogger)
			router.Mount("/", webservices.NewRouter(logger, tracer, info, filter))

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = router

			logger.Info("about to start serving on %q", *addr)

			goErr := server.ListenAndServe()
			if goErr != nil {
				return errorsx.Wrap(goErr)
			}
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func setupRender() {
	cmd := kingpin.Command("render", "render one map to a PNG file, the same way the service would")
	geoJSONRef := cmd.Flag("geojson", "GeoJSON dataset: a path under the prefix, or a URL").Required().String()
	styleRef := cmd.Flag("style", "style document (QML or SLD): a path under the prefix, or a URL. '$type' is replaced with polygons, lines and points").Required().String()
	width := cmd.Flag("width", "output width in pixels").Required().String()
	height := cmd.Flag("height", "output height in pixels").Required().String()
	dpi := cmd.Flag("dpi", "output DPI").Default(fmt.Sprintf("%d", rendergeojson.DefaultDPI)).String()
	bbox := cmd.Flag("bbox", "extent to render, as min_x,min_y,max_x,max_y").Required().String()
	outPath := cmd.Arg("out", "file to write the PNG to").Required().String()
	flags := addCommonFlags(cmd)
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			pathsConfig, err := flags.pathsConfig()
			if err != nil {
				return errorsx.Wrap(err)
			}

			if *flags.shouldProfile {
				defer profile.Start(profile.ProfilePath(filepath.Dir(*outPath)), profile.CPUProfile).Stop()
			}

			tracer, closeTraceFile, err := createTracer(pathsConfig.TraceDir)
			if err != nil {
				return errorsx.Wrap(err)
			}
			defer closeTraceFile()

			trace := tracing.StartTrace(tracer, fmt.Sprintf("render %s", *outPath))
			renderCtx := context.WithValue(context.Background(), tracing.TraceCtxKey, trace)
			renderCtx = context.WithValue(renderCtx, tracing.TracerCtxKey, tracer)

			params := map[string]string{
				rendergeojson.ParamGeoJSON: *geoJSONRef,
				rendergeojson.ParamStyle:   *styleRef,
				rendergeojson.ParamWidth:   *width,
				rendergeojson.ParamHeight:  *height,
				rendergeojson.ParamDPI:     *dpi,
				rendergeojson.ParamBBox:    *bbox,
			}

			output, err := flags.createPipeline(pathsConfig).Render(renderCtx, params)
			if err != nil {
				return errorsx.Wrap(err)
			}

			goErr := tracer.EndTrace(trace, "")
			if goErr != nil {
				logger.Warn("could not end trace: %q", goErr)
			}

			goErr = gofs.NewOsFs().WriteFile(*outPath, output.Body, 0644)
			if goErr != nil {
				return errorsx.Wrap(goErr, "path", *outPath)
			}

			logger.Info("written to %q", *outPath)
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}
