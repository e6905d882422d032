package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type Server struct {
	logger  *slog.Logger
	hub     *Hub
	session *Session
}

// NewServer wires the handler to a hub and a session. Both must be started
// with Run for clients to receive anything.
func NewServer(logger *slog.Logger, hub *Hub, session *Session) *Server {
	return &Server{
		logger:  logger,
		hub:     hub,
		session: session,
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Register registers the WS handler on the provided mux.
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleWS)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades and registers a client, then sends state_init.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, s.session, r.RemoteAddr, s.logger)

	// Queue state_init before registering so it precedes every broadcast.
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	initMsg, err := s.session.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("ws snapshot request failed", "error", err)
		_ = conn.Close()
		return
	}
	client.send <- initMsg

	s.hub.register <- client

	// The pumps outlive the request; the hub and read errors end them.
	go client.writePump(context.Background())
	go client.readPump(context.Background())
}
