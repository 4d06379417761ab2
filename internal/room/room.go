package room

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/service"
)

// Snapshot - a fully-consistent copy of a session plus the events produced
// by the most recent action.
type Snapshot struct {
	Session *entity.Session `json:"session"`
	Events  []ludo.Event    `json:"events,omitempty"`
}

// Broadcaster - the sink state updates are pushed into after every mutation.
type Broadcaster interface {
	Publish(snapshot *Snapshot)
	Notify(roomID, message string)
}

// Config - collaborators a room needs.
type Config struct {
	Logger      *slog.Logger
	GamePlay    service.GamePlayService
	Bot         service.BotService
	Scheduler   Scheduler
	Broadcaster Broadcaster

	CPUTurnDelay time.Duration
	CPUMoveDelay time.Duration

	// OnGameOver fires once, from the room's own goroutine, with a snapshot
	// of the terminal session.
	OnGameOver func(session *entity.Session)
}

// Room - the per-session actor. All reads and writes of the session go
// through the command channel, so exactly one action is in flight at a time
// and out-of-order actions are rejected before any mutation.
type Room struct {
	logger *slog.Logger
	conf   Config

	session   *entity.Session
	createdAt time.Time
	cancelCPU CancelFunc

	commands  chan func()
	closed    chan struct{}
	closeOnce sync.Once
}

func New(session *entity.Session, conf Config) *Room {
	that := &Room{
		logger:    conf.Logger.With("component", "room", "roomID", session.ID),
		conf:      conf,
		session:   session,
		createdAt: time.Now(),
		commands:  make(chan func()),
		closed:    make(chan struct{}),
	}

	go that.loop()

	return that
}

func (that *Room) ID() string {
	return that.session.ID
}

func (that *Room) CreatedAt() time.Time {
	return that.createdAt
}

func (that *Room) loop() {
	for {
		select {
		case fn := <-that.commands:
			fn()
		case <-that.closed:
			return
		}
	}
}

// do - runs fn on the room goroutine and waits for it. A closed room turns
// every action into a no-op.
func (that *Room) do(fn func()) {
	done := make(chan struct{})

	select {
	case that.commands <- func() { fn(); close(done) }:
	case <-that.closed:
		return
	}

	select {
	case <-done:
	case <-that.closed:
	}
}

func (that *Room) Close() {
	that.closeOnce.Do(func() {
		close(that.closed)
	})
}

// Join - seats a connection in the first open human slot. The game starts
// once every human slot is filled.
func (that *Room) Join(profileID, name, connID string) (int, error) {
	seatIdx, err := 0, error(apperror.ErrSeatUnavailable)

	that.do(func() {
		if that.session.IsFinished() {
			return
		}

		seat, open := that.session.OpenSeat()
		if !open {
			return
		}

		player := that.session.Players[seat]
		player.ConnectionID = connID
		player.ProfileID = profileID
		player.Name = name

		if that.session.IsWaiting() && that.session.AllSeatsFilled() {
			that.session.Status = entity.StatusOngoing
		}

		seatIdx, err = seat, nil

		that.broadcast(nil)
		that.afterAction()
	})

	return seatIdx, err
}

// Roll - rolls the die for the seat behind connID.
func (that *Room) Roll(connID string) (int, error) {
	var (
		die     int
		rollErr error
	)

	that.do(func() {
		seat, ok := that.session.SeatByConnection(connID)
		if !ok {
			rollErr = apperror.ErrOutOfTurn
			return
		}

		rolled, events, err := that.conf.GamePlay.Roll(that.session, seat)
		if err != nil {
			rollErr = err
			return
		}

		die = rolled
		that.broadcast(events)

		if !that.session.Rolled {
			// the roll left no legal move and the turn resolved on its own
			color := that.session.Players[seat].Color
			that.conf.Broadcaster.Notify(that.session.ID, fmt.Sprintf("%s rolled %d — no moves!", strings.ToUpper(string(color)), rolled))
		}

		that.notifyEvents(events)
		that.afterAction()
	})

	return die, rollErr
}

// Move - moves the chosen token for the seat behind connID.
func (that *Room) Move(connID string, tokenID int) error {
	moveErr := error(nil)

	that.do(func() {
		seat, ok := that.session.SeatByConnection(connID)
		if !ok {
			moveErr = apperror.ErrOutOfTurn
			return
		}

		events, err := that.conf.GamePlay.Move(that.session, seat, tokenID)
		if err != nil {
			moveErr = err
			return
		}

		that.broadcast(events)
		that.notifyEvents(events)
		that.afterAction()
	})

	return moveErr
}

// Disconnect - flips the seat behind connID to computer control so the game
// cannot stall. An in-progress roll is cleared so the takeover re-rolls.
func (that *Room) Disconnect(connID string) {
	that.do(func() {
		seat, ok := that.session.SeatByConnection(connID)
		if !ok {
			return
		}

		player := that.session.Players[seat]
		player.ConnectionID = ""
		player.IsCPU = true

		if that.session.IsWaiting() && that.session.AllSeatsFilled() {
			that.session.Status = entity.StatusOngoing
		}

		if that.session.IsOngoing() && that.session.CurrentSeat == seat {
			that.session.Rolled = false
		}

		that.broadcast(nil)
		that.afterAction()
	})
}

// Snapshot - a consistent copy of the current state.
func (that *Room) Snapshot() *Snapshot {
	var snapshot *Snapshot

	that.do(func() {
		snapshot = &Snapshot{Session: that.session.Clone()}
	})

	return snapshot
}

// afterAction - after any mutation: finish a terminal session, otherwise
// hand control to the CPU scheduler when the current seat is computer-run.
func (that *Room) afterAction() {
	if that.session.IsFinished() {
		that.finishGame()
		return
	}

	if that.session.IsOngoing() && that.session.CurrentPlayer().IsCPU {
		that.scheduleCPU(that.conf.CPUTurnDelay)
	}
}

func (that *Room) scheduleCPU(delay time.Duration) {
	if that.cancelCPU != nil {
		that.cancelCPU()
	}

	that.cancelCPU = that.conf.Scheduler.After(delay, func() {
		that.do(that.cpuTurn)
	})
}

// cpuTurn - a computer seat's roll. Every guard re-checks state on wake: the
// session may have ended, the seat may have been reclaimed, or a human
// action may have already advanced the turn before the timer fired.
func (that *Room) cpuTurn() {
	if !that.session.IsOngoing() || that.session.Rolled {
		return
	}

	seat := that.session.CurrentSeat
	player := that.session.CurrentPlayer()
	if !player.IsCPU {
		return
	}

	die, events, err := that.conf.GamePlay.Roll(that.session, seat)
	if err != nil {
		that.logger.Error("cpu roll failed", "error", err)
		return
	}

	that.broadcast(events)

	if !that.session.Rolled {
		that.conf.Broadcaster.Notify(that.session.ID, fmt.Sprintf("%s rolled %d — no moves!", strings.ToUpper(string(player.Color)), die))
		that.notifyEvents(events)
		that.afterAction()
		return
	}

	that.cancelCPU = that.conf.Scheduler.After(that.conf.CPUMoveDelay, func() {
		that.do(func() { that.cpuMove(seat) })
	})
}

// cpuMove - the deferred half of a computer turn; same stale-timer guards.
func (that *Room) cpuMove(seat int) {
	if !that.session.IsOngoing() || !that.session.Rolled || that.session.CurrentSeat != seat {
		return
	}

	player := that.session.Players[seat]
	if !player.IsCPU {
		return
	}

	tokenID, ok := that.conf.Bot.ChooseToken(that.session, seat)
	if !ok {
		return
	}

	events, err := that.conf.GamePlay.Move(that.session, seat, tokenID)
	if err != nil {
		that.logger.Error("cpu move failed", "error", err)
		return
	}

	that.broadcast(events)
	that.notifyEvents(events)
	that.afterAction()
}

func (that *Room) finishGame() {
	if that.cancelCPU != nil {
		that.cancelCPU()
		that.cancelCPU = nil
	}

	if that.conf.OnGameOver != nil {
		that.conf.OnGameOver(that.session.Clone())
	}
}

// broadcast - publishes a post-mutation snapshot; observers never see the
// live session the actor keeps mutating.
func (that *Room) broadcast(events []ludo.Event) {
	that.conf.Broadcaster.Publish(&Snapshot{
		Session: that.session.Clone(),
		Events:  events,
	})
}

func (that *Room) notifyEvents(events []ludo.Event) {
	roomID := that.session.ID

	for _, event := range events {
		switch event.Type {
		case ludo.EventForfeit:
			that.conf.Broadcaster.Notify(roomID, fmt.Sprintf("3 sixes in a row! %s loses their turn!", strings.ToUpper(string(event.Color))))
		case ludo.EventWin:
			that.conf.Broadcaster.Notify(roomID, fmt.Sprintf("%s wins the game!", strings.ToUpper(string(event.Color))))
		}
	}

	if that.session.ExtraTurn && !that.session.Rolled && !that.session.IsFinished() {
		color := that.session.CurrentPlayer().Color
		that.conf.Broadcaster.Notify(roomID, fmt.Sprintf("%s rolled 6 — extra turn!", strings.ToUpper(string(color))))
	}
}
