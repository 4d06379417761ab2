package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload - the single request/response body shape for every action.
type Payload struct {
	Player  *entity.Profile `json:"player,omitempty"`
	Mode    string          `json:"mode,omitempty"`
	RoomID  string          `json:"room_id,omitempty"`
	Seat    *int            `json:"seat,omitempty"`
	Color   entity.Color    `json:"color,omitempty"`
	TokenID *int            `json:"token_id,omitempty"`
	Die     int             `json:"die,omitempty"`
	Waiting int             `json:"waiting,omitempty"`
	Session *entity.Session `json:"session,omitempty"`
	Events  []ludo.Event    `json:"events,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func statePayload(snapshot *room.Snapshot) Payload {
	return Payload{
		Session: snapshot.Session,
		Events:  snapshot.Events,
	}
}

func seatOf(seat int) *int {
	return &seat
}
