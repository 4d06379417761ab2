package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
)

func (that *Server) handleConnect(ctx context.Context, conn *connection, message *Message) error {
	log := that.logger.With("method", "handleConnect", "connID", conn.id)

	var payloadReq Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	var id, name string
	if payloadReq.Player != nil {
		id = payloadReq.Player.ID
		name = payloadReq.Player.Name
	}

	profile, err := that.profiles.GetOrCreate(ctx, id, name)
	if err != nil {
		log.Error("failed to get or create profile", "error", err)
		return that.sendErrorResponse(conn, message.Action, "failed to create a player")
	}

	conn.playerID = profile.ID
	conn.playerName = profile.Name

	log.Info("player connected", "profileID", profile.ID)

	return conn.send(message.Action, Payload{Player: profile})
}

func (that *Server) handleCreateRoom(ctx context.Context, conn *connection, message *Message) error {
	log := that.logger.With("method", "handleCreateRoom", "connID", conn.id)

	if conn.playerID == "" {
		return that.sendErrorResponse(conn, message.Action, "connect first")
	}

	var payloadReq Payload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	newRoom, seat, err := that.manager.CreateRoom(ctx, payloadReq.Mode, conn.playerID, conn.playerName, conn.id)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return that.sendErrorResponse(conn, message.Action, "failed to create a room")
	}

	that.hub.join(newRoom.ID(), conn)

	snapshot := newRoom.Snapshot()

	log.Info("room created", "roomID", newRoom.ID(), "seat", seat)

	return conn.send(message.Action, Payload{
		RoomID:  newRoom.ID(),
		Seat:    seatOf(seat),
		Color:   seatColor(seat),
		Session: snapshot.Session,
	})
}

func (that *Server) handleJoinRoom(ctx context.Context, conn *connection, message *Message) error {
	log := that.logger.With("method", "handleJoinRoom", "connID", conn.id)

	if conn.playerID == "" {
		return that.sendErrorResponse(conn, message.Action, "connect first")
	}

	var payloadReq Payload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	roomID := strings.ToUpper(strings.TrimSpace(payloadReq.RoomID))

	existing, seat, err := that.manager.JoinRoom(ctx, roomID, conn.playerID, conn.playerName, conn.id)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return that.sendErrorResponse(conn, message.Action, "room not found")
	}

	if errors.Is(err, apperror.ErrSeatUnavailable) {
		return that.sendErrorResponse(conn, message.Action, "room is full or already started")
	}

	if err != nil {
		log.Error("failed to join room", "roomID", roomID, "error", err)
		return that.sendErrorResponse(conn, message.Action, "failed to join the room")
	}

	that.hub.join(existing.ID(), conn)

	snapshot := existing.Snapshot()

	log.Info("player joined room", "roomID", roomID, "seat", seat)

	return conn.send(message.Action, Payload{
		RoomID:  existing.ID(),
		Seat:    seatOf(seat),
		Color:   seatColor(seat),
		Session: snapshot.Session,
	})
}

func (that *Server) handleQuickJoin(ctx context.Context, conn *connection, message *Message) error {
	log := that.logger.With("method", "handleQuickJoin", "connID", conn.id)

	if conn.playerID == "" {
		return that.sendErrorResponse(conn, message.Action, "connect first")
	}

	placements, waiting, err := that.manager.QuickJoin(ctx, conn.playerID, conn.playerName, conn.id)
	if err != nil {
		log.Error("failed to quick join", "error", err)
		return that.sendErrorResponse(conn, message.Action, "failed to join matchmaking")
	}

	if len(placements) == 0 {
		return conn.send("matchmaking:count", Payload{Waiting: waiting})
	}

	for _, placement := range placements {
		matchedConn, ok := that.connByID(placement.ConnID)
		if !ok {
			log.Warn("matched connection is gone", "connID", placement.ConnID)
			continue
		}

		that.hub.join(placement.Room.ID(), matchedConn)

		snapshot := placement.Room.Snapshot()

		if err = matchedConn.send(message.Action, Payload{
			RoomID:  placement.Room.ID(),
			Seat:    seatOf(placement.Seat),
			Color:   seatColor(placement.Seat),
			Session: snapshot.Session,
		}); err != nil {
			log.Error("failed to notify matched player", "connID", placement.ConnID, "error", err)
		}
	}

	log.Info("quick match formed", "roomID", placements[0].Room.ID())

	return nil
}

func (that *Server) handleCancelQuickJoin(_ context.Context, conn *connection, message *Message) error {
	that.manager.CancelQuickJoin(conn.id)

	return conn.send(message.Action, Payload{})
}

func (that *Server) handleRoll(_ context.Context, conn *connection, message *Message) error {
	log := that.logger.With("method", "handleRoll", "connID", conn.id)

	existing, ok := that.manager.RoomByConnection(conn.id)
	if !ok {
		return that.sendErrorResponse(conn, message.Action, "not in a room")
	}

	die, err := existing.Roll(conn.id)
	if err != nil {
		return that.respondActionError(conn, message.Action, err)
	}

	log.Info("player rolled", "roomID", existing.ID(), "die", die)

	return conn.send(message.Action, Payload{Die: die})
}

func (that *Server) handleMove(_ context.Context, conn *connection, message *Message) error {
	log := that.logger.With("method", "handleMove", "connID", conn.id)

	var payloadReq Payload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.TokenID == nil {
		return that.sendErrorResponse(conn, message.Action, "token_id is required")
	}

	existing, ok := that.manager.RoomByConnection(conn.id)
	if !ok {
		return that.sendErrorResponse(conn, message.Action, "not in a room")
	}

	if err := existing.Move(conn.id, *payloadReq.TokenID); err != nil {
		return that.respondActionError(conn, message.Action, err)
	}

	log.Info("player moved", "roomID", existing.ID(), "tokenID", *payloadReq.TokenID)

	return conn.send(message.Action, Payload{})
}

// respondActionError - maps rule violations to client-facing messages; the
// error goes only to the offending connection, shared state is untouched.
func (that *Server) respondActionError(conn *connection, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrOutOfTurn):
		return that.sendErrorResponse(conn, action, "not your turn")
	case errors.Is(err, apperror.ErrAlreadyRolled):
		return that.sendErrorResponse(conn, action, "you already rolled")
	case errors.Is(err, apperror.ErrNotRolled):
		return that.sendErrorResponse(conn, action, "roll the die first")
	case errors.Is(err, apperror.ErrIllegalMove):
		return that.sendErrorResponse(conn, action, "cannot move that token")
	case errors.Is(err, apperror.ErrGameNotStarted):
		return that.sendErrorResponse(conn, action, "game is not started")
	case errors.Is(err, apperror.ErrGameFinished):
		return that.sendErrorResponse(conn, action, "game is already finished")
	default:
		return that.sendErrorResponse(conn, action, "action failed")
	}
}
