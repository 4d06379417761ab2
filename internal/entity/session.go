package entity

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const (
	ModeFourPlayers = "4p"
	ModeOneVsThree  = "1v3"
	ModeTwoVsTwo    = "2v2"
	ModeThreeVsOne  = "3v1"
)

// seatModes - which seats start computer-controlled per mode.
var seatModes = map[string][SeatsPerSession]bool{
	ModeFourPlayers: {false, false, false, false},
	ModeOneVsThree:  {false, true, true, true},
	ModeTwoVsTwo:    {false, false, true, true},
	ModeThreeVsOne:  {false, false, false, true},
}

// Session - one room's full game state. A session is only ever mutated from
// its room's actor goroutine; nothing here locks.
type Session struct {
	ID          string                   `json:"id"`
	Mode        string                   `json:"mode"`
	Players     [SeatsPerSession]*Player `json:"players"`
	CurrentSeat int                      `json:"current_seat"`
	DieValue    int                      `json:"die_value"`
	Rolled      bool                     `json:"rolled"`
	ExtraTurn   bool                     `json:"extra_turn"`
	Status      string                   `json:"status"`
	Winner      Color                    `json:"winner,omitempty"`

	SixStreak [SeatsPerSession]int `json:"-"`
}

// NewSession - creates a session with all tokens at base. Unknown modes fall
// back to a single human seat against three computer seats.
func NewSession(id, mode string) *Session {
	cpuFlags, ok := seatModes[mode]
	if !ok {
		mode = ModeOneVsThree
		cpuFlags = seatModes[mode]
	}

	session := &Session{
		ID:     id,
		Mode:   mode,
		Status: StatusWaiting,
	}

	for i, color := range SeatColors {
		session.Players[i] = NewPlayer(color, cpuFlags[i])
	}

	return session
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) CurrentPlayer() *Player {
	return that.Players[that.CurrentSeat]
}

// OpenSeat - the first human seat without a connection, for joins.
func (that *Session) OpenSeat() (int, bool) {
	for i, player := range that.Players {
		if !player.IsCPU && !player.HasConnection() {
			return i, true
		}
	}

	return 0, false
}

// AllSeatsFilled - true when every human seat has a connection.
func (that *Session) AllSeatsFilled() bool {
	_, open := that.OpenSeat()
	return !open
}

// SeatByConnection - the seat index bound to connID.
func (that *Session) SeatByConnection(connID string) (int, bool) {
	if connID == "" {
		return 0, false
	}

	for i, player := range that.Players {
		if player.ConnectionID == connID {
			return i, true
		}
	}

	return 0, false
}

// Clone - deep copy for broadcast snapshots, so observers never see a
// half-applied move while the actor keeps mutating the original.
func (that *Session) Clone() *Session {
	copied := *that

	for i, player := range that.Players {
		copied.Players[i] = player.clone()
	}

	return &copied
}
