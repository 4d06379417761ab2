package entity

// Player - one seat of a session. A seat with no connection is either
// computer-controlled from the start or was taken over after a disconnect.
type Player struct {
	Color         Color                 `json:"color"`
	Name          string                `json:"name,omitempty"`
	IsCPU         bool                  `json:"is_cpu"`
	FinishedCount int                   `json:"finished_count"`
	Tokens        [TokensPerSeat]*Token `json:"tokens"`

	// ConnectionID and ProfileID tie the seat to a live connection and a
	// stored profile; both empty for computer-controlled seats.
	ConnectionID string `json:"-"`
	ProfileID    string `json:"-"`

	// LastMovedToken is consulted by the triple-six forfeiture rule;
	// nil until the seat has moved a token.
	LastMovedToken *int `json:"-"`
}

func NewPlayer(color Color, isCPU bool) *Player {
	player := &Player{
		Color: color,
		IsCPU: isCPU,
	}

	for i := range player.Tokens {
		player.Tokens[i] = NewToken(i)
	}

	return player
}

func (that *Player) HasConnection() bool {
	return that.ConnectionID != ""
}

func (that *Player) clone() *Player {
	copied := *that

	for i, token := range that.Tokens {
		tokenCopy := *token
		copied.Tokens[i] = &tokenCopy
	}

	if that.LastMovedToken != nil {
		last := *that.LastMovedToken
		copied.LastMovedToken = &last
	}

	return &copied
}
