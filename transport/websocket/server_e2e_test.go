package websocket_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	nws "nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/repository"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
	"github.com/rocketscienceinc/ludo-backend/internal/service"
	"github.com/rocketscienceinc/ludo-backend/transport/websocket"
)

// memSessionRepo - in-memory stand-in for the redis session archive.
type memSessionRepo struct {
	mu      sync.Mutex
	records map[string]*entity.SessionRecord
}

func (that *memSessionRepo) CreateOrUpdate(_ context.Context, record *entity.SessionRecord) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *record
	that.records[record.ID] = &stored

	return nil
}

// memProfileRepo - in-memory stand-in for the redis profile store.
type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*entity.Profile
}

func (that *memProfileRepo) CreateOrUpdate(_ context.Context, profile *entity.Profile) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *profile
	that.profiles[profile.ID] = &stored

	return nil
}

func (that *memProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	profile, ok := that.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}

	found := *profile

	return &found, nil
}

// newTestServer - the full websocket stack on an ephemeral listener, with
// in-memory stores instead of redis.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := &memSessionRepo{records: make(map[string]*entity.SessionRecord)}
	profiles := &memProfileRepo{profiles: make(map[string]*entity.Profile)}

	hub := websocket.NewHub(logger)

	manager := room.NewManager(logger, room.Config{
		Logger:       logger,
		GamePlay:     service.NewGamePlayService(logger, service.NewDice()),
		Bot:          service.NewBotService(),
		Scheduler:    room.NewScheduler(),
		Broadcaster:  hub,
		CPUTurnDelay: 50 * time.Millisecond,
		CPUMoveDelay: 20 * time.Millisecond,
	}, sessions, profiles)

	server := websocket.New(logger, manager, service.NewProfileService(profiles), hub)

	ctx, cancel := context.WithCancel(context.Background())
	httpServer := httptest.NewServer(server.Handler(ctx))

	t.Cleanup(func() {
		cancel()
		httpServer.Close()
	})

	return httpServer
}

func dial(ctx context.Context, t *testing.T, httpServer *httptest.Server) *nws.Conn {
	t.Helper()

	wsURL := "ws://" + strings.TrimPrefix(httpServer.URL, "http://") + "/ws"

	conn, _, err := nws.Dial(ctx, wsURL, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close(nws.StatusNormalClosure, "")
	})

	return conn
}

func sendAction(ctx context.Context, t *testing.T, conn *nws.Conn, action, payload string) {
	t.Helper()

	message := websocket.Message{Action: action}
	if payload != "" {
		message.Payload = json.RawMessage(payload)
	}

	require.NoError(t, wsjson.Write(ctx, conn, message))
}

// awaitAction - reads frames until one carries the wanted action, skipping
// interleaved broadcasts (game:state, notification).
func awaitAction(ctx context.Context, t *testing.T, conn *nws.Conn, action string) websocket.Payload {
	t.Helper()

	for {
		var message websocket.Message
		require.NoError(t, wsjson.Read(ctx, conn, &message), "waiting for %q", action)

		if message.Action != action {
			continue
		}

		var payload websocket.Payload
		if len(message.Payload) > 0 {
			require.NoError(t, json.Unmarshal(message.Payload, &payload))
		}

		return payload
	}
}

func TestServer_SoloGameFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	httpServer := newTestServer(t)
	conn := dial(ctx, t, httpServer)

	// Given: a connected player
	sendAction(ctx, t, conn, "connect", `{"player":{"name":"alice"}}`)
	connected := awaitAction(ctx, t, conn, "connect")
	require.NotNil(t, connected.Player)
	assert.NotEmpty(t, connected.Player.ID)
	assert.Equal(t, "alice", connected.Player.Name)

	// When: opening a solo room against three computer seats
	sendAction(ctx, t, conn, "room:create", `{"mode":"1v3"}`)
	created := awaitAction(ctx, t, conn, "room:create")

	// Then: the player holds seat 0 of a running game
	assert.Len(t, created.RoomID, 8)
	require.NotNil(t, created.Seat)
	assert.Equal(t, 0, *created.Seat)
	assert.Equal(t, entity.ColorRed, created.Color)
	require.NotNil(t, created.Session)
	assert.True(t, created.Session.IsOngoing())

	// When: rolling the die; the state broadcast precedes the reply
	sendAction(ctx, t, conn, "game:roll", `{}`)

	var rolled websocket.Payload
	var lastState *entity.Session
	for rolled.Die == 0 {
		var message websocket.Message
		require.NoError(t, wsjson.Read(ctx, conn, &message))

		switch message.Action {
		case "game:state":
			var payload websocket.Payload
			require.NoError(t, json.Unmarshal(message.Payload, &payload))
			lastState = payload.Session
		case "game:roll":
			require.NoError(t, json.Unmarshal(message.Payload, &rolled))
		}
	}

	// Then: a die value came back and the room broadcast the new state
	assert.Empty(t, rolled.Error)
	assert.GreaterOrEqual(t, rolled.Die, 1)
	assert.LessOrEqual(t, rolled.Die, 6)
	require.NotNil(t, lastState)

	// and a second roll in the same turn is rejected without breaking the game
	if lastState.Rolled && lastState.CurrentSeat == 0 {
		sendAction(ctx, t, conn, "game:roll", `{}`)
		again := awaitAction(ctx, t, conn, "game:roll")
		assert.Equal(t, "you already rolled", again.Error)
	}
}

func TestServer_RejectsActionsOutsideARoom(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	httpServer := newTestServer(t)
	conn := dial(ctx, t, httpServer)

	sendAction(ctx, t, conn, "connect", `{"player":{"name":"bob"}}`)
	awaitAction(ctx, t, conn, "connect")

	// When: rolling without ever joining a room
	sendAction(ctx, t, conn, "game:roll", `{}`)
	rolled := awaitAction(ctx, t, conn, "game:roll")

	// Then: the action is rejected with a client-facing message
	assert.Equal(t, "not in a room", rolled.Error)
}

func TestServer_QuickMatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	httpServer := newTestServer(t)

	// Given: four connected players
	conns := make([]*nws.Conn, 4)
	for i := range conns {
		conns[i] = dial(ctx, t, httpServer)
		sendAction(ctx, t, conns[i], "connect", `{"player":{"name":"player"}}`)
		awaitAction(ctx, t, conns[i], "connect")
	}

	// When: the first three queue up
	for i := 0; i < 3; i++ {
		sendAction(ctx, t, conns[i], "room:quick", `{}`)
		count := awaitAction(ctx, t, conns[i], "matchmaking:count")
		assert.Equal(t, i+1, count.Waiting)
	}

	// and the fourth completes the match
	sendAction(ctx, t, conns[3], "room:quick", `{}`)

	// Then: every connection is seated in the same fresh 4-player room
	roomIDs := make(map[string]bool)
	seats := make(map[int]bool)
	for _, conn := range conns {
		placed := awaitAction(ctx, t, conn, "room:quick")

		require.NotNil(t, placed.Seat)
		seats[*placed.Seat] = true
		roomIDs[placed.RoomID] = true

		require.NotNil(t, placed.Session)
		assert.Equal(t, entity.ModeFourPlayers, placed.Session.Mode)
		assert.True(t, placed.Session.IsOngoing())
	}

	assert.Len(t, roomIDs, 1)
	assert.Len(t, seats, 4)
}
