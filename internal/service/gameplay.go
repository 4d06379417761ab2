package service

import (
	"log/slog"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
)

// GamePlayService - the turn controller. Validates action order, rolls the
// die, applies moves and resolves the turn. It never locks; the room actor
// guarantees one action in flight per session.
type GamePlayService interface {
	Roll(session *entity.Session, seatIdx int) (int, []ludo.Event, error)
	Move(session *entity.Session, seatIdx, tokenID int) ([]ludo.Event, error)
	LegalTokens(session *entity.Session, seatIdx int) []int
}

type gamePlayService struct {
	logger *slog.Logger
	dice   Dice
}

func NewGamePlayService(logger *slog.Logger, dice Dice) GamePlayService {
	return &gamePlayService{
		logger: logger,
		dice:   dice,
	}
}

// Roll - rolls the die for the seat. When the roll leaves the seat with no
// legal token the turn resolves immediately and the returned events carry
// anything the resolution produced (e.g. a forfeit).
func (that *gamePlayService) Roll(session *entity.Session, seatIdx int) (int, []ludo.Event, error) {
	if err := that.confirmActionable(session, seatIdx); err != nil {
		return 0, nil, err
	}

	if session.Rolled {
		return 0, nil, apperror.ErrAlreadyRolled
	}

	die := that.dice.Roll()
	session.DieValue = die
	session.Rolled = true

	that.logger.Debug("die rolled", "session", session.ID, "seat", seatIdx, "die", die)

	var events []ludo.Event
	if len(ludo.LegalTokens(session, seatIdx)) == 0 {
		// no move possible; a six still grants the bonus turn here
		events = ludo.ResolveTurn(session)
	}

	return die, events, nil
}

// Move - applies the chosen token move and resolves the turn. A win inside
// ApplyMove flips the session terminal and pre-empts bonus/forfeiture
// processing.
func (that *gamePlayService) Move(session *entity.Session, seatIdx, tokenID int) ([]ludo.Event, error) {
	if err := that.confirmActionable(session, seatIdx); err != nil {
		return nil, err
	}

	if !session.Rolled {
		return nil, apperror.ErrNotRolled
	}

	if tokenID < 0 || tokenID >= entity.TokensPerSeat {
		return nil, apperror.ErrIllegalMove
	}

	player := session.Players[seatIdx]
	if !ludo.CanMove(player.Tokens[tokenID], session.DieValue, player.Color) {
		return nil, apperror.ErrIllegalMove
	}

	events := ludo.ApplyMove(session, seatIdx, tokenID)

	if !session.IsFinished() {
		events = append(events, ludo.ResolveTurn(session)...)
	}

	return events, nil
}

func (that *gamePlayService) LegalTokens(session *entity.Session, seatIdx int) []int {
	return ludo.LegalTokens(session, seatIdx)
}

func (that *gamePlayService) confirmActionable(session *entity.Session, seatIdx int) error {
	switch {
	case session.IsFinished():
		return apperror.ErrGameFinished
	case session.IsWaiting():
		return apperror.ErrGameNotStarted
	}

	if session.CurrentSeat != seatIdx {
		return apperror.ErrOutOfTurn
	}

	return nil
}
