package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/weekalloc/pkg/handlers/allocation"
	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/de-tools/weekalloc/pkg/services/config"
	sqlstore "github.com/de-tools/weekalloc/pkg/store/sql"

	weekallocmiddleware "github.com/de-tools/weekalloc/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Calculator allocation.Calculator
	Profiles   config.ProfileRegistry
	Store      sqlstore.AllocationStore
	Logger     zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// MaxRangeDays bounds computed ranges; zero keeps the handler default.
	MaxRangeDays    int
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	allocHandler := handlers.NewHandler(deps.Calculator, deps.Profiles, deps.Store,
		handlers.WithMaxRangeDays(config.MaxRangeDays))

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(weekallocmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/allocations", allocHandler.GetAllocations)
		r.Get("/allocations/stored", allocHandler.GetStoredAllocations)
		r.Get("/profiles", allocHandler.ListProfiles)
		r.Get("/profiles/{profile}/allocations", allocHandler.GetProfileAllocations)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: shutdownTimeout,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
