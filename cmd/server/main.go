package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	route "github.com/bassista/go_notes/internal/api/route"
	appctx "github.com/bassista/go_notes/internal/app"
	"github.com/bassista/go_notes/internal/config"
	"github.com/bassista/go_notes/internal/logger"
	"github.com/bassista/go_notes/internal/metrics"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/enrichman/httpgrace"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const storeInitTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithComponent("main").Fatalf("configuration error: %v", err)
	}

	// Set log level from configuration
	logLevel, err := logrus.ParseLevel(cfg.Misc.LogLevel)
	if err != nil {
		logger.WithComponent("main").Warnf("invalid log level '%s', using 'info': %v", cfg.Misc.LogLevel, err)
		logLevel = logrus.InfoLevel
	}
	logger.Logger.SetLevel(logLevel)
	logFile := logger.SetupFileOutput(cfg.Misc.LogFile)
	defer logFile.Close()
	logger.WithComponent("main").Debugf("log level set to: %s", logLevel.String())
	logger.WithComponent("main").Infof("App will run on port: %d", cfg.Server.Port)

	initCtx, cancelInit := context.WithTimeout(context.Background(), storeInitTimeout)
	store, err := repository.NewNoteStoreFromConfig(initCtx, repository.StoreOptions{
		DatabaseURL: cfg.Data.DatabaseURL,
		NotesPath:   cfg.Data.NotesPath,
		MaxConns:    cfg.Data.DBMaxConns,
	})
	cancelInit()
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init note store: %v", err)
	}

	var metricsManager *metrics.Manager
	if cfg.Misc.MetricsEnabled {
		metricsManager = metrics.NewManagerForStore(store)
	}

	app, err := appctx.New(cfg, store, metricsManager)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init app: %v", err)
	}
	defer app.Shutdown()

	if err := app.StartWatchers(); err != nil {
		logger.WithComponent("main").Warnf("cannot start notes file watcher: %v", err)
	}

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := route.SetupRoutes(app, logger.Logger)
	mainSrv := createGraceHttpServer(app.BaseCtx, "main-server", app.Config.Server, r)

	if err := mainSrv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithComponent("main").Error(err)
	}
}

func createGraceHttpServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	srv := httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("Shutting down %s server....", name)
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
	return srv
}
