package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrGameNotStarted  = errors.New("game is not started")
	ErrOutOfTurn       = errors.New("it's not your turn")
	ErrAlreadyRolled   = errors.New("die already rolled this turn")
	ErrNotRolled       = errors.New("die is not rolled yet")
	ErrIllegalMove     = errors.New("token cannot move with this die")
	ErrSeatUnavailable = errors.New("no open seat available")
	ErrRoomNotFound    = errors.New("room not found")
)
