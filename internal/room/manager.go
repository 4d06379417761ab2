package room

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/pkg"
)

const quickMatchSize = entity.SeatsPerSession

const archiveTimeout = 5 * time.Second

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, record *entity.SessionRecord) error
}

type profileRepo interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	CreateOrUpdate(ctx context.Context, profile *entity.Profile) error
}

// Placement - where quick-join matchmaking seated a queued connection.
type Placement struct {
	ConnID string
	Room   *Room
	Seat   int
}

type queuedPlayer struct {
	profileID string
	name      string
	connID    string
}

// Manager - the owned registry of live rooms plus the quick-join queue.
// Rooms exclusively own their sessions; the manager only maps ids and
// connections to rooms.
type Manager struct {
	logger      *slog.Logger
	roomConf    Config
	sessionRepo sessionRepo
	profileRepo profileRepo

	mu    sync.RWMutex
	rooms map[string]*Room
	conns map[string]string // connection id -> room id
	queue []queuedPlayer
}

func NewManager(logger *slog.Logger, roomConf Config, sessionRepo sessionRepo, profileRepo profileRepo) *Manager {
	that := &Manager{
		logger:      logger.With("component", "room-manager"),
		roomConf:    roomConf,
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		rooms:       make(map[string]*Room),
		conns:       make(map[string]string),
	}

	that.roomConf.OnGameOver = that.handleGameOver

	return that
}

// CreateRoom - creates a room in the given mode and seats the creator in its
// first human slot.
func (that *Manager) CreateRoom(ctx context.Context, mode, profileID, name, connID string) (*Room, int, error) {
	session := entity.NewSession(pkg.GenerateRoomID(), mode)
	newRoom := New(session, that.roomConf)

	that.mu.Lock()
	that.rooms[newRoom.ID()] = newRoom
	that.mu.Unlock()

	seat, err := newRoom.Join(profileID, name, connID)
	if err != nil {
		that.removeRoom(newRoom)
		return nil, 0, fmt.Errorf("failed to seat creator: %w", err)
	}

	that.bindConnection(connID, newRoom.ID())
	that.tagProfileRoom(ctx, profileID, newRoom.ID())

	if err = that.archive(ctx, newRoom, session); err != nil {
		that.logger.Error("failed to archive new room", "roomID", newRoom.ID(), "error", err)
	}

	that.logger.Info("room created", "roomID", newRoom.ID(), "mode", session.Mode)

	return newRoom, seat, nil
}

// JoinRoom - seats a connection in an existing room by id.
func (that *Manager) JoinRoom(ctx context.Context, roomID, profileID, name, connID string) (*Room, int, error) {
	existing, ok := that.Room(roomID)
	if !ok {
		return nil, 0, apperror.ErrRoomNotFound
	}

	seat, err := existing.Join(profileID, name, connID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to join room %s: %w", roomID, err)
	}

	that.bindConnection(connID, roomID)
	that.tagProfileRoom(ctx, profileID, roomID)

	return existing, seat, nil
}

// QuickJoin - queues a connection for matchmaking. Once four players wait,
// they are all seated into a fresh 4-player room; the returned placements
// tell the transport which connection ended up on which seat. waiting is the
// queue length visible to the caller when no match formed yet.
func (that *Manager) QuickJoin(ctx context.Context, profileID, name, connID string) ([]Placement, int, error) {
	that.mu.Lock()

	for _, queued := range that.queue {
		if queued.connID == connID {
			waiting := len(that.queue)
			that.mu.Unlock()
			return nil, waiting, nil
		}
	}

	that.queue = append(that.queue, queuedPlayer{profileID: profileID, name: name, connID: connID})

	if len(that.queue) < quickMatchSize {
		waiting := len(that.queue)
		that.mu.Unlock()
		return nil, waiting, nil
	}

	matched := make([]queuedPlayer, quickMatchSize)
	copy(matched, that.queue[:quickMatchSize])
	that.queue = that.queue[quickMatchSize:]
	that.mu.Unlock()

	session := entity.NewSession(pkg.GenerateRoomID(), entity.ModeFourPlayers)
	newRoom := New(session, that.roomConf)

	that.mu.Lock()
	that.rooms[newRoom.ID()] = newRoom
	that.mu.Unlock()

	placements := make([]Placement, 0, quickMatchSize)
	for _, queued := range matched {
		seat, err := newRoom.Join(queued.profileID, queued.name, queued.connID)
		if err != nil {
			that.logger.Error("failed to seat matched player", "roomID", newRoom.ID(), "error", err)
			continue
		}

		that.bindConnection(queued.connID, newRoom.ID())
		that.tagProfileRoom(ctx, queued.profileID, newRoom.ID())
		placements = append(placements, Placement{ConnID: queued.connID, Room: newRoom, Seat: seat})
	}

	if err := that.archive(ctx, newRoom, session); err != nil {
		that.logger.Error("failed to archive matched room", "roomID", newRoom.ID(), "error", err)
	}

	that.logger.Info("quick match formed", "roomID", newRoom.ID())

	return placements, 0, nil
}

// CancelQuickJoin - drops a connection from the matchmaking queue.
func (that *Manager) CancelQuickJoin(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, queued := range that.queue {
		if queued.connID == connID {
			that.queue = append(that.queue[:i], that.queue[i+1:]...)
			return
		}
	}
}

// Disconnect - absorbs a dropped connection: leaves the matchmaking queue
// and hands the seat to computer control so the session keeps moving.
func (that *Manager) Disconnect(connID string) {
	that.CancelQuickJoin(connID)

	that.mu.Lock()
	roomID, ok := that.conns[connID]
	if ok {
		delete(that.conns, connID)
	}
	that.mu.Unlock()

	if !ok {
		return
	}

	if existing, found := that.Room(roomID); found {
		existing.Disconnect(connID)
	}
}

func (that *Manager) Room(roomID string) (*Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existing, ok := that.rooms[roomID]

	return existing, ok
}

// RoomByConnection - the room a connection is seated in.
func (that *Manager) RoomByConnection(connID string) (*Room, bool) {
	that.mu.RLock()
	roomID, ok := that.conns[connID]
	that.mu.RUnlock()

	if !ok {
		return nil, false
	}

	return that.Room(roomID)
}

func (that *Manager) RoomCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// QueueLength - how many players wait in matchmaking.
func (that *Manager) QueueLength() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.queue)
}

func (that *Manager) bindConnection(connID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[connID] = roomID
}

func (that *Manager) removeRoom(target *Room) {
	that.mu.Lock()
	delete(that.rooms, target.ID())
	for connID, roomID := range that.conns {
		if roomID == target.ID() {
			delete(that.conns, connID)
		}
	}
	that.mu.Unlock()

	target.Close()
}

// handleGameOver - fires from the winning room's goroutine with a terminal
// snapshot: finalize the archive record, credit the winner's profile, drop
// the room from the registry.
func (that *Manager) handleGameOver(session *entity.Session) {
	log := that.logger.With("roomID", session.ID, "winner", session.Winner)

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	existing, ok := that.Room(session.ID)
	if !ok {
		return
	}

	record := &entity.SessionRecord{
		ID:         session.ID,
		Mode:       session.Mode,
		Winner:     session.Winner,
		CreatedAt:  existing.CreatedAt(),
		FinishedAt: time.Now(),
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, record); err != nil {
		log.Error("failed to archive finished session", "error", err)
	}

	that.creditWinner(ctx, session)

	go that.removeRoom(existing)

	log.Info("game over")
}

func (that *Manager) creditWinner(ctx context.Context, session *entity.Session) {
	for _, player := range session.Players {
		if player.Color != session.Winner || player.ProfileID == "" {
			continue
		}

		profile, err := that.profileRepo.GetByID(ctx, player.ProfileID)
		if err != nil {
			that.logger.Error("failed to load winner profile", "profileID", player.ProfileID, "error", err)
			return
		}

		profile.Wins++
		if err = that.profileRepo.CreateOrUpdate(ctx, profile); err != nil {
			that.logger.Error("failed to update winner profile", "profileID", player.ProfileID, "error", err)
		}

		return
	}
}

// tagProfileRoom - remembers which room a profile is seated in, so a
// returning client can be pointed back at it.
func (that *Manager) tagProfileRoom(ctx context.Context, profileID, roomID string) {
	if profileID == "" {
		return
	}

	profile, err := that.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		that.logger.Error("failed to load profile for room tag", "profileID", profileID, "error", err)
		return
	}

	profile.RoomID = roomID
	if err = that.profileRepo.CreateOrUpdate(ctx, profile); err != nil {
		that.logger.Error("failed to tag profile with room", "profileID", profileID, "error", err)
	}
}

func (that *Manager) archive(ctx context.Context, newRoom *Room, session *entity.Session) error {
	record := &entity.SessionRecord{
		ID:        session.ID,
		Mode:      session.Mode,
		CreatedAt: newRoom.CreatedAt(),
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, record); err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}

	return nil
}
