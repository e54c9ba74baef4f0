package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"

	ledgerhttp "github.com/gaqzi/review-ledger/internal/ledger/http"
	httpassets "github.com/gaqzi/review-ledger/internal/platform/http"
)

type Server struct {
	Config Config
	HTTP   *http.Server

	storage io.Closer
}

// Stop will shut down the server safely and then close the storage.
func (s *Server) Stop(ctx context.Context) error {
	return errors.Join(s.HTTP.Shutdown(ctx), s.storage.Close())
}

// Start wires up the app and starts running it
func Start(ctx context.Context, cfg Config) (*Server, error) {
	service, closer, err := OpenLedger(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to listen to %q: %w", cfg.Addr, err)
	}
	cfg.Addr = ln.Addr().String() // In case cfg.Addr was random we'll update the config to point to what we ended up using

	logger := httplog.NewLogger("review-ledger", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	httpassets.PublicAssets(r)
	r.Group(ledgerhttp.Handler(service))

	server := http.Server{Handler: r}
	server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	go (func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "error", err)
		}
	})()

	return &Server{
		Config:  cfg,
		HTTP:    &server,
		storage: closer,
	}, nil
}
