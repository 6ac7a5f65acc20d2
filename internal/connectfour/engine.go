package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/lines"
)

const (
	Width     = 7
	Height    = 6
	WinLength = 4
)

// Engine exposes the package functions behind the interface the table manager selects engines by.
type Engine struct{}

func (Engine) Kind() entity.GameKind {
	return entity.KindConnectFour
}

func (Engine) Initialize(entity.Options) entity.GameState {
	return Initialize()
}

func (Engine) Transition(state entity.GameState, action entity.Action) (entity.GameState, error) {
	return Transition(state, action)
}

func (Engine) Moves(state entity.GameState) []entity.Position {
	return Moves(state)
}

func (Engine) DropRow(board entity.Board, column int) (int, bool) {
	return DropRow(board, column)
}

// Initialize returns an empty 7x6 board with X to move.
func Initialize() entity.GameState {
	return entity.GameState{
		Kind:          entity.KindConnectFour,
		Board:         entity.NewBoard(Height, Width),
		CurrentPlayer: entity.PlayerX,
		Status:        entity.StatusInitializing,
	}
}

// Transition applies action to state and returns the next state. The input
// state is never modified. An error is only returned for an action type the
// engine does not know.
func Transition(state entity.GameState, action entity.Action) (entity.GameState, error) {
	switch action.Type {
	case entity.ActionTurn:
		return playTurn(state, action.Column, action.Row), nil
	case entity.ActionReset:
		return Initialize(), nil
	default:
		return state, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, action.Type)
	}
}

func playTurn(state entity.GameState, column, row int) entity.GameState {
	if state.Status.IsTerminal() {
		return state
	}

	if err := ValidateMove(state.Board, column, row); err != nil {
		state.Error = err.Error()
		return state
	}

	player := state.CurrentPlayer
	state.Board = state.Board.Place(row, column, player)
	state.Error = ""

	switch {
	case IsWinningMove(state.Board, column, row, player):
		state.Status = entity.StatusWon
	case state.Board.IsFull():
		state.Status = entity.StatusDraw
	default:
		state.Status = entity.StatusInProgress
		state.CurrentPlayer = player.Opponent()
	}

	return state
}

// ValidateMove checks that (column, row) is the lowest empty cell of its column.
func ValidateMove(board entity.Board, column, row int) error {
	if !board.InBounds(row, column) {
		return fmt.Errorf("%w: %w: column %d, row %d", apperror.ErrInvalidMove, apperror.ErrOutOfBounds, column, row)
	}

	if board[row][column] != entity.Empty {
		return fmt.Errorf("%w: %w: column %d, row %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, column, row)
	}

	isBottom := row == board.Rows()-1
	if !isBottom && board[row+1][column] == entity.Empty {
		return fmt.Errorf("%w: %w: column %d, row %d", apperror.ErrInvalidMove, apperror.ErrCellUnsupported, column, row)
	}

	return nil
}

// DropRow returns the row a token dropped into column lands on; ok is false
// when the column is full or does not exist.
func DropRow(board entity.Board, column int) (int, bool) {
	if column < 0 || column >= board.Cols() {
		return 0, false
	}

	for row := board.Rows() - 1; row >= 0; row-- {
		if board[row][column] == entity.Empty {
			return row, true
		}
	}

	return 0, false
}

// IsWinningMove reports whether sym at (column, row) completes four in a row.
// Only the four lines through that cell are inspected.
func IsWinningMove(board entity.Board, column, row int, sym entity.Symbol) bool {
	for _, dir := range lines.Orientations {
		line := lines.Through(board, row, column, dir, WinLength-1)
		if lines.LongestRun(line, sym) >= WinLength {
			return true
		}
	}

	return false
}

// IsPlayable is the single "can this cell be played now" predicate, shared by
// the reducer and whatever decides which controls to enable.
func IsPlayable(state entity.GameState, column, row int) bool {
	return !state.Status.IsTerminal() && ValidateMove(state.Board, column, row) == nil
}

// Moves lists every playable cell, at most one per column.
func Moves(state entity.GameState) []entity.Position {
	if state.Status.IsTerminal() {
		return nil
	}

	moves := make([]entity.Position, 0, state.Board.Cols())
	for column := 0; column < state.Board.Cols(); column++ {
		if row, ok := DropRow(state.Board, column); ok {
			moves = append(moves, entity.Position{Column: column, Row: row})
		}
	}

	return moves
}
