package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
	"vcardops/config"
	"vcardops/infras/metrics"
	"vcardops/shared/constant"
	"vcardops/internal/handlers/event"
	"vcardops/transport/http/middleware"
	"vcardops/transport/http/response"
	"vcardops/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	healthPath = "/health"
	healthOK   = "OK"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

type HTTP struct {
	Config  *config.Config
	Router  router.Router
	App     middleware.AppMiddleware
	Metrics *metrics.Metrics
	Events  event.Handler

	state atomic.Int32
	mux   *chi.Mux
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, m *metrics.Metrics, events event.Handler) *HTTP {
	return &HTTP{
		Config:  cfg,
		Router:  r,
		App:     app,
		Metrics: m,
		Events:  events,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setState(state ServerState) {
	h.state.Store(int32(state))
}

// Serve runs the API and the ingestion consumer until SIGINT or SIGTERM,
// then drains: health turns unhealthy during the grace period, in-flight
// requests get the cleanup period to finish.
func (h *HTTP) Serve() {
	h.setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadTimeout:       time.Duration(h.Config.Server.Timeout.ReadSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(h.Config.Server.Timeout.ReadSeconds) * time.Second,
		WriteTimeout:      time.Duration(h.Config.Server.Timeout.WriteSeconds) * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	if err := h.run(ctx, server, listener); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
}

// run serves on listener next to the ingestion consumer. Either one failing,
// or ctx ending, starts the shutdown sequence.
func (h *HTTP) run(ctx context.Context, server *http.Server, listener net.Listener) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Str("addr", listener.Addr().String()).Msg("Starting up HTTP server.")

		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		if err := h.Events.Run(groupCtx); err != nil {
			return fmt.Errorf("ingestion consumer: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		h.shutdown(server)

		return nil
	})

	return group.Wait() //nolint:wrapcheck
}

// Handler builds the router without a listener, for serverless entrypoints.
func (h *HTTP) Handler() http.Handler {
	h.setup()

	return h.mux
}

func (h *HTTP) setup() {
	if h.mux != nil {
		return
	}

	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RequestID, chiMiddleware.Recoverer)

	if cfg := h.Config.App.CORS; cfg.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           cfg.MaxAgeSeconds,
		}))
	}

	h.mux.Use(h.App.Tracing, h.App.Metrics, h.App.RateLimit())

	h.mux.Get(healthPath, h.health)

	if h.Config.Metrics.Enable {
		h.mux.Handle(h.Config.Metrics.Path, h.Metrics.Handler())
	}

	h.Router.SetupRoutes(h.mux)

	h.setState(ServerStateReady)
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, healthOK)
	case ServerStateInGracePeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) shutdown(server *http.Server) {
	shutdown := h.Config.Server.Shutdown
	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		shutdown.GracePeriodSeconds = 0
		shutdown.CleanupPeriodSeconds = 0
	}

	log.Info().Int64("seconds", shutdown.GracePeriodSeconds).Msg("Shutting down. Entering grace period.")

	h.setState(ServerStateInGracePeriod)
	time.Sleep(time.Duration(shutdown.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdown.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.setState(ServerStateInCleanupPeriod)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdown.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain in time")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
