package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger   *slog.Logger
	handlers *handlers
	sockets  *websocket.Server
}

func NewServer(logger *slog.Logger, tables tableManager) *Server {
	restLogger := logger.With("component", "rest")

	return &Server{
		logger:   restLogger,
		handlers: newHandlers(restLogger, tables),
		sockets:  websocket.New(logger, tables),
	}
}

// Handler returns the router with panic recovery applied.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlers.ping)

	mux.HandleFunc("POST /tables", that.handlers.createTable)
	mux.HandleFunc("GET /tables/{id}", that.handlers.getTable)
	mux.HandleFunc("POST /tables/{id}/actions", that.handlers.dispatch)
	mux.HandleFunc("DELETE /tables/{id}", that.handlers.closeTable)
	mux.HandleFunc("GET /tables/{id}/ws", that.sockets.ServeTable)

	return that.recoverPanic(mux)
}

// Start serves on port until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		that.logger.Info("http server listening", "port", port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	that.logger.Info("http server stopped")

	return nil
}

func (that *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				that.logger.Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", recovered,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
