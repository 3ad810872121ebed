package internal

import (
	"context"
	"fmt"
	"mediawall/internal/archive/interfaces"
	"mediawall/internal/controllers"
	"mediawall/internal/providers"
	"mediawall/internal/structures"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
}

// NewHandler assembles the full HTTP surface. Media streams bypass the
// compression and rate limiting layers.
func NewHandler(router providers.RouterProviderInterface, healthController *controllers.HealthController, conf *structures.Config, metrics providers.MetricsProviderInterface) (http.Handler, error) {
	compress, err := providers.NewCompressionMiddleware(conf)
	if err != nil {
		return nil, err
	}
	limit := providers.NewRateLimitMiddleware(conf)

	appMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		handler := route.Handler
		switch {
		case strings.HasPrefix(route.Url, "/api/"):
			handler = limit(compress(handler))
		case strings.HasPrefix(route.Url, "/videos/"):
			// raw bytes, range responses must not be re-encoded
		default:
			handler = compress(handler)
		}
		appMux.Handle(route.Url, handler)
	}

	// Outer mux: infrastructure + instrumented application routes
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthController.Liveness)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, appMux))
	return mux, nil
}

func NewApp(mediaController *controllers.MediaController, healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	handler, err := NewHandler(router, healthController, conf, metrics)
	if err != nil {
		return nil, err
	}

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if !mediaController.MediaDirExists() {
		logger.Warnf(providers.TypeApp, "Media directory %s does not exist, the wall will be empty", mediaController.MediaRoot())
	}

	if err := scheduler.Restore(); err != nil {
		return nil, fmt.Errorf("ledger restore: %w", err)
	}

	return &App{
		WebServer: &http.Server{
			Addr:         net.JoinHostPort(conf.WebServer.Host, strconv.Itoa(conf.WebServer.Port)),
			Handler:      handler,
			ReadTimeout:  conf.WebServer.ReadTimeout,
			WriteTimeout: conf.WebServer.WriteTimeout,
			IdleTimeout:  conf.WebServer.IdleTimeout,
		},
		conf:      conf,
		logger:    logger,
		scheduler: scheduler,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then drains connections and writes
// a final set of snapshots.
func (a *App) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	return a.serve(stop)
}

// serve runs until stop fires or the listener fails. The logger and the
// scheduler are closed on every exit path.
func (a *App) serve(stop <-chan os.Signal) error {
	defer a.logger.Close()
	defer a.scheduler.Close()

	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil {
		a.logger.Warnf(providers.TypeApp, "Shutdown incomplete: %s", err)
	}
	if err := a.scheduler.Persist(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
