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

// Start serves the HTTP API until the context is cancelled.
func Start(ctx context.Context, logger *slog.Logger, port string, gamePlay gamePlayService, promo promoService) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(logger, gamePlay, promo),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		return nil
	}
}

// NewRouter builds the chi router so tests can drive handlers without a
// listening socket.
func NewRouter(logger *slog.Logger, gamePlay gamePlayService, promo promoService) http.Handler {
	h := newHandlers(logger, gamePlay, promo)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", h.ping)

	router.Route("/api", func(r chi.Router) {
		r.Post("/game/new", h.newGame)
		r.Post("/game/move", h.makeMove)
		r.Get("/game/{gameID}", h.getGame)
		r.Get("/game/player/{playerID}", h.listPlayerGames)

		r.Get("/promo/check/{code}", h.checkPromo)
		r.Post("/promo/use/{code}", h.usePromo)
	})

	return router
}
