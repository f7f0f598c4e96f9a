package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/calgapt/calgapt/internal/config"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds the application from an already loaded configuration.
func New(cfg config.Application) *Application {
	r := mux.NewRouter()

	deps := BuildDependencies(cfg)

	SetupMiddleware(r, cfg)

	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler: r,
		Addr:    cfg.Listen,
		// CalDAV calls may take up to the client timeout.
		WriteTimeout: cfg.CalDav.Timeout + 15*time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

// Run starts the HTTP server and blocks until it fails or the process is
// interrupted.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
