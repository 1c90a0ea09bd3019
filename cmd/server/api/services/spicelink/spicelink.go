// Package spicelink is the classification server.
package spicelink

import (
	"context"
	"embed"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/najmahf/spicelink/cmd/server/api/services/spicelink/build"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/cache"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/debug"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/mux"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/results"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/cmd/server/foundation/otel"
	"github.com/najmahf/spicelink/sdk/spice"
	observotel "github.com/najmahf/spicelink/sdk/spice/observ/otel"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
	"github.com/najmahf/spicelink/sdk/tools/registry"
)

//go:embed static
var static embed.FS

var tag = "develop"

func Run(showHelp bool) error {
	var log *logger.Logger

	events := logger.Events{
		Error: func(ctx context.Context, r logger.Record) {
			log.Info(ctx, "******* SEND ALERT *******")
		},
	}

	traceIDFn := func(ctx context.Context) string {
		return observotel.GetTraceID(ctx)
	}

	log = logger.NewWithEvents(os.Stdout, logger.LevelInfo, "SPICELINK", traceIDFn, events)

	// -------------------------------------------------------------------------

	ctx := context.Background()

	if err := run(ctx, log, showHelp); err != nil {
		return err
	}

	return nil
}

func run(ctx context.Context, log *logger.Logger, showHelp bool) error {

	// -------------------------------------------------------------------------
	// GOMAXPROCS

	if !showHelp {
		log.Info(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))
	}

	// -------------------------------------------------------------------------
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout        time.Duration `conf:"default:30s"`
			WriteTimeout       time.Duration `conf:"default:2m"`
			IdleTimeout        time.Duration `conf:"default:1m"`
			ShutdownTimeout    time.Duration `conf:"default:1m"`
			APIHost            string        `conf:"default:localhost:8080"`
			DebugHost          string        `conf:"default:localhost:8090"`
			CORSAllowedOrigins []string      `conf:"default:*"`
		}
		Tempo struct {
			Host        string  // `conf:"default:tempo:4317"`
			ServiceName string  `conf:"default:spicelink"`
			Probability float64 `conf:"default:0.05"`
		}
		Model struct {
			BasePath     string `conf:"default:zarf/models"`
			RegistryFile string // Leave empty for the built-in model set.
			LibPath      string // Leave empty to use the system onnxruntime.
			MaxInstances int    `conf:"default:1"`
			MaxInCache   int    `conf:"default:4"`
		}
		Results struct {
			MaxEntries int           `conf:"default:100"`
			TimeToLive time.Duration `conf:"default:15m"`
		}
	}{
		Version: conf.Version{
			Build: tag,
			Desc:  "SpiceLink",
		},
	}

	const prefix = "SPICELINK"
	if showHelp {
		help, err := conf.UsageInfo(prefix, &cfg)
		if err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
		return fmt.Errorf("%s", help)
	}

	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// -------------------------------------------------------------------------
	// App Starting

	log.Info(ctx, "starting service", "version", cfg.Build)
	defer log.Info(ctx, "shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Info(ctx, "startup", "config", out)

	log.BuildInfo(ctx)

	expvar.NewString("build").Set(cfg.Build)

	fmt.Println(logo)

	// -------------------------------------------------------------------------
	// Start Tracing Support

	log.Info(ctx, "startup", "status", "initializing tracing support")

	traceProvider, teardown, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.Tempo.ServiceName,
		Host:        cfg.Tempo.Host,
		ExcludedRoutes: map[string]struct{}{
			"/v1/liveness":  {},
			"/v1/readiness": {},
		},
		Probability: cfg.Tempo.Probability,
	})

	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}

	defer func() {
		log.Info(ctx, "shutdown", "status", "teardown otel")
		teardown(context.Background())
	}()

	tracer := traceProvider.Tracer(cfg.Tempo.ServiceName)

	// -------------------------------------------------------------------------
	// Model Registry

	log.Info(ctx, "startup", "status", "building model registry", "basePath", cfg.Model.BasePath)

	reg := registry.New(cfg.Model.BasePath)
	if cfg.Model.RegistryFile != "" {
		reg, err = registry.NewFromFile(cfg.Model.BasePath, cfg.Model.RegistryFile)
		if err != nil {
			return fmt.Errorf("unable to create model registry: %w", err)
		}
	}

	for _, d := range reg.List() {
		log.Info(ctx, "startup", "model", d.Name, "file", d.File, "available", reg.Available(d))
	}

	// -------------------------------------------------------------------------
	// Spice Catalog

	ctlg, err := catalog.New()
	if err != nil {
		return fmt.Errorf("unable to create spice catalog: %w", err)
	}

	// -------------------------------------------------------------------------
	// Init Inference Runtime

	log.Info(ctx, "startup", "status", "initializing onnx runtime", "libPath", cfg.Model.LibPath)

	var initOpts []spice.InitOption
	if cfg.Model.LibPath != "" {
		initOpts = append(initOpts, spice.WithLibPath(cfg.Model.LibPath))
	}

	if err := spice.Init(initOpts...); err != nil {
		return fmt.Errorf("installation invalid: %w", err)
	}

	defer func() {
		log.Info(ctx, "shutdown", "status", "teardown onnx runtime")

		if err := spice.Teardown(); err != nil {
			log.Error(ctx, "onnx runtime", "ERROR", err)
		}
	}()

	cache, err := cache.New(cache.Config{
		Log:        log,
		Registry:   reg,
		MaxInCache: cfg.Model.MaxInCache,
		Instances:  cfg.Model.MaxInstances,
	})

	if err != nil {
		return fmt.Errorf("initializing model cache: %w", err)
	}

	defer func() {
		log.Info(ctx, "shutdown", "status", "shutting down model cache")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := cache.Shutdown(ctx); err != nil {
			log.Error(ctx, "model cache", "ERROR", err)
		}
	}()

	// -------------------------------------------------------------------------
	// Results Store

	store, err := results.NewStore(cfg.Results.MaxEntries, cfg.Results.TimeToLive)
	if err != nil {
		return fmt.Errorf("initializing results store: %w", err)
	}

	// -------------------------------------------------------------------------
	// Start Debug Service

	go func() {
		log.Info(ctx, "startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

		if err := http.ListenAndServe(cfg.Web.DebugHost, debug.Mux()); err != nil {
			log.Error(ctx, "shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "msg", err)
		}
	}()

	// -------------------------------------------------------------------------
	// Start API Service

	log.Info(ctx, "startup", "status", "initializing V1 API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	cfgMux := mux.Config{
		Build:    tag,
		Log:      log,
		Tracer:   tracer,
		Cache:    cache,
		Registry: reg,
		Catalog:  ctlg,
		Results:  store,
	}

	webAPI := mux.WebAPI(cfgMux,
		build.Routes(),
		mux.WithCORS(cfg.Web.CORSAllowedOrigins),
		mux.WithFileServer(static, "static", "/"),
	)

	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      webAPI,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     logger.NewStdLogger(log, logger.LevelError),
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info(ctx, "startup", "status", "api router started", "host", api.Addr)

		serverErrors <- api.ListenAndServe()
	}()

	// -------------------------------------------------------------------------
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

var logo = `
███████╗██████╗ ██╗ ██████╗███████╗██╗     ██╗███╗   ██╗██╗  ██╗
██╔════╝██╔══██╗██║██╔════╝██╔════╝██║     ██║████╗  ██║██║ ██╔╝
███████╗██████╔╝██║██║     █████╗  ██║     ██║██╔██╗ ██║█████╔╝
╚════██║██╔═══╝ ██║██║     ██╔══╝  ██║     ██║██║╚██╗██║██╔═██╗
███████║██║     ██║╚██████╗███████╗███████╗██║██║ ╚████║██║  ██╗
╚══════╝╚═╝     ╚═╝ ╚═════╝╚══════╝╚══════╝╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝
`
