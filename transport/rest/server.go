package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - wires the engine and session routes.
func NewRouter(logger *slog.Logger, uGame uGame) http.Handler {
	h := &handlers{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", h.ping)

	r.Route("/engine", func(r chi.Router) {
		r.Post("/evaluate", h.evaluate)
		r.Post("/best-move", h.bestMove)
	})

	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.deleteSession)
		r.Post("/turn", h.makeTurn)
		r.Post("/computer-turn", h.computerTurn)
		r.Post("/restart", h.restart)
		r.Put("/mode", h.setMode)
		r.Put("/mark", h.selectMark)
		r.Get("/hint", h.hint)
	})

	return r
}

// Start - serves handler on port until ctx is cancelled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
