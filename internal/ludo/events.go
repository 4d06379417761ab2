package ludo

import "github.com/rocketscienceinc/ludo-backend/internal/entity"

type EventType string

const (
	// EventBlocked - the move was rejected because 2+ enemy tokens hold the
	// destination cell; no state changed.
	EventBlocked EventType = "blocked"
	// EventCapture - a lone enemy token on the destination was sent to base.
	EventCapture EventType = "capture"
	// EventHome - a token reached the final lane cell.
	EventHome EventType = "home"
	// EventWin - the seat's fourth token finished; the session is over.
	EventWin EventType = "win"
	// EventForfeit - a third consecutive six cost the seat its turn and
	// recalled its last-moved token.
	EventForfeit EventType = "forfeit"
)

type Event struct {
	Type   EventType    `json:"type"`
	Color  entity.Color `json:"color,omitempty"`
	By     entity.Color `json:"by,omitempty"`
	Victim entity.Color `json:"victim,omitempty"`
}

func blockedEvent(color entity.Color) Event {
	return Event{Type: EventBlocked, Color: color}
}

func captureEvent(by, victim entity.Color) Event {
	return Event{Type: EventCapture, By: by, Victim: victim}
}

func homeEvent(color entity.Color) Event {
	return Event{Type: EventHome, Color: color}
}

func winEvent(color entity.Color) Event {
	return Event{Type: EventWin, Color: color}
}

func forfeitEvent(color entity.Color) Event {
	return Event{Type: EventForfeit, Color: color}
}
