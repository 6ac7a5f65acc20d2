package apperror

import "errors"

// invalid moves, reported on the game state as a non-fatal annotation.
var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrOutOfBounds     = errors.New("cell is out of bounds")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrCellUnsupported = errors.New("cell below is empty")
	ErrNotYourTurn     = errors.New("it's not your turn")
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownGameKind = errors.New("unknown game kind")
	ErrTableNotFound   = errors.New("table not found")
	ErrBoardTooLarge   = errors.New("board size is too large")
	ErrRowRequired     = errors.New("row is required for this game")
)
