package main

import (
	"context"
	"net/http"

	charmlog "github.com/charmbracelet/log"

	"github.com/coredavis/rtldavis/internal/events"
)

// httpServer serves the live reading stream: a mux plus ListenAndServe,
// pared down to the single /ws route this command exposes.
type httpServer struct {
	srv *http.Server
}

func startHTTPServer(addr string, bus *events.Bus, logger *charmlog.Logger) *httpServer {
	mux := http.NewServeMux()
	bridge := events.NewWebSocketBridge(bus, logger)
	mux.HandleFunc("/ws", bridge.HandleWebSocket)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("serving readings", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", "err", err)
		}
	}()
	return &httpServer{srv: srv}
}

func (h *httpServer) Shutdown(ctx context.Context) {
	h.srv.Shutdown(ctx)
}
