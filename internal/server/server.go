// Package server streams combustor runs to websocket clients.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	// every n-th sample is streamed
	every int
}

func NewServer(addr string, upgrader websocket.Upgrader, every int) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		every:    every,
	}
}

// Handler routes /ws to the websocket endpoint.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.serveWs(ctx, w, r)
	})
	return mux
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.WithField("remote", conn.RemoteAddr().String()).Info("client connected")
	NewHub(conn, s.every).Run(ctx)
}

// Serve listens until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler(ctx)}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.WithField("addr", s.addr).Info("serving websocket on /ws")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
