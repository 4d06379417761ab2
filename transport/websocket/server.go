package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/pkg"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
	"github.com/rocketscienceinc/ludo-backend/internal/service"
)

type roomManager interface {
	CreateRoom(ctx context.Context, mode, profileID, name, connID string) (*room.Room, int, error)
	JoinRoom(ctx context.Context, roomID, profileID, name, connID string) (*room.Room, int, error)
	QuickJoin(ctx context.Context, profileID, name, connID string) ([]room.Placement, int, error)
	CancelQuickJoin(connID string)
	Disconnect(connID string)
	RoomByConnection(connID string) (*room.Room, bool)
}

type Server struct {
	logger   *slog.Logger
	manager  roomManager
	profiles service.ProfileService
	hub      *Hub

	connsMutex sync.RWMutex
	conns      map[string]*connection

	handlers map[string]func(ctx context.Context, conn *connection, message *Message) error
}

func New(logger *slog.Logger, manager roomManager, profiles service.ProfileService, hub *Hub) *Server {
	server := &Server{
		logger:   logger.With("component", "ws-server"),
		manager:  manager,
		profiles: profiles,
		hub:      hub,

		conns:    make(map[string]*connection),
		handlers: make(map[string]func(context.Context, *connection, *Message) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["room:create"] = server.handleCreateRoom
	server.handlers["room:join"] = server.handleJoinRoom
	server.handlers["room:quick"] = server.handleQuickJoin
	server.handlers["room:cancel"] = server.handleCancelQuickJoin
	server.handlers["game:roll"] = server.handleRoll
	server.handlers["game:move"] = server.handleMove

	return server
}

// Handler - the /ws endpoint, exposed separately so tests can serve it on an
// ephemeral listener.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 0, // connections are long-lived
		IdleTimeout: 0,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	netConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer netConn.Close()

	conn := &connection{
		id:    pkg.GenerateNewSessionID(),
		bufrw: bufrw,
	}

	that.connsMutex.Lock()
	that.conns[conn.id] = conn
	that.connsMutex.Unlock()

	log.Info("WebSocket connection established", "connID", conn.id)

	that.handleMessages(ctx, conn)
	that.dropConnection(conn)
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages", "connID", conn.id)

	for {
		reqBody, err := conn.readMessage()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// dropConnection - absorbs a disconnect: the seat flips to computer control
// inside the room, so the session keeps moving without this client.
func (that *Server) dropConnection(conn *connection) {
	that.connsMutex.Lock()
	delete(that.conns, conn.id)
	that.connsMutex.Unlock()

	that.hub.leave(conn)
	that.manager.Disconnect(conn.id)

	that.logger.Info("connection dropped", "connID", conn.id)
}

func (that *Server) connByID(connID string) (*connection, bool) {
	that.connsMutex.RLock()
	defer that.connsMutex.RUnlock()

	conn, ok := that.conns[connID]

	return conn, ok
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := conn.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func seatColor(seat int) entity.Color {
	return entity.SeatColors[seat]
}
