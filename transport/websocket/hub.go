package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

// Hub - fan-out of room state to the connections seated in it. Implements
// the broadcast sink the rooms publish into.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	members map[string]map[*connection]struct{} // room id -> connections
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "ws-hub"),
		members: make(map[string]map[*connection]struct{}),
	}
}

func (that *Hub) join(roomID string, conn *connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.members[roomID] == nil {
		that.members[roomID] = make(map[*connection]struct{})
	}

	that.members[roomID][conn] = struct{}{}
}

func (that *Hub) leave(conn *connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for roomID, conns := range that.members {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(that.members, roomID)
		}
	}
}

// Publish - pushes a post-mutation snapshot to every member of the room.
func (that *Hub) Publish(snapshot *room.Snapshot) {
	for _, conn := range that.roomMembers(snapshot.Session.ID) {
		if err := conn.send("game:state", statePayload(snapshot)); err != nil {
			that.logger.Error("failed to send game state", "connID", conn.id, "error", err)
		}
	}
}

// Notify - pushes a human-readable game notification to the room.
func (that *Hub) Notify(roomID, message string) {
	for _, conn := range that.roomMembers(roomID) {
		if err := conn.send("notification", Payload{Message: message}); err != nil {
			that.logger.Error("failed to send notification", "connID", conn.id, "error", err)
		}
	}
}

func (that *Hub) roomMembers(roomID string) []*connection {
	that.mu.RLock()
	defer that.mu.RUnlock()

	conns := make([]*connection, 0, len(that.members[roomID]))
	for conn := range that.members[roomID] {
		conns = append(conns, conn)
	}

	return conns
}
