package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Listener owns the http.Server for a Server's routes.
type Listener struct {
	server     *Server
	httpServer *http.Server
	addr       net.Addr
	errc       chan error
}

// NewListener wraps s. Read and header timeouts are set here; the write
// timeout is left to the per-route middleware so websocket streams are
// not cut off.
func NewListener(s *Server) *Listener {
	return &Listener{server: s, errc: make(chan error, 1)}
}

// Start binds addr and serves in a goroutine. It returns once the socket is
// bound, so Addr is valid afterwards.
func (l *Listener) Start(addr string) error {
	l.httpServer = &http.Server{
		Handler:           l.server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	l.addr = ln.Addr()
	l.server.logger.Printf("server_listening addr=%s", l.addr)
	go func() {
		if err := l.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errc <- err
		}
		close(l.errc)
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (l *Listener) Addr() net.Addr {
	return l.addr
}

// Err delivers a serve error, and is closed when serving stops.
func (l *Listener) Err() <-chan error {
	return l.errc
}

// Shutdown gracefully stops the HTTP server.
func (l *Listener) Shutdown(ctx context.Context) error {
	if l.httpServer == nil {
		return nil
	}
	return l.httpServer.Shutdown(ctx)
}
