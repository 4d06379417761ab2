package entity

import "time"

// Profile - a stored player identity, independent of any live session.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	RoomID string `json:"room_id,omitempty"`
	Wins   int    `json:"wins"`
}

// SessionRecord - the archived summary of a session, written when a room is
// created and finalized at game over. Live game state never leaves the room.
type SessionRecord struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Winner     Color     `json:"winner,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}
