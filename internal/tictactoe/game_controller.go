package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/lines"
)

const MinBoardSize = 3

type Engine struct{}

func (Engine) Kind() entity.GameKind {
	return entity.KindTicTacToe
}

func (Engine) Initialize(opts entity.Options) entity.GameState {
	return Initialize(opts)
}

func (Engine) Transition(state entity.GameState, action entity.Action) (entity.GameState, error) {
	return Transition(state, action)
}

func (Engine) Moves(state entity.GameState) []entity.Position {
	return Moves(state)
}

// Initialize returns an empty board with X to move. A board size below the
// minimum, including zero, is raised to the minimum.
func Initialize(opts entity.Options) entity.GameState {
	size := opts.BoardSize
	if size < MinBoardSize {
		size = MinBoardSize
	}

	return entity.GameState{
		Kind:          entity.KindTicTacToe,
		Board:         entity.NewBoard(size, size),
		CurrentPlayer: entity.PlayerX,
		Status:        entity.StatusInitializing,
		BoardSize:     size,
	}
}

func Transition(state entity.GameState, action entity.Action) (entity.GameState, error) {
	switch action.Type {
	case entity.ActionTurn:
		return MakeTurn(state, action.Column, action.Row, action.Symbol), nil
	case entity.ActionReset:
		return Initialize(entity.Options{BoardSize: state.BoardSize}), nil
	case entity.ActionResize:
		// a game can't change size mid-play
		if state.Status == entity.StatusInProgress {
			return state, nil
		}
		return Initialize(entity.Options{BoardSize: action.Size}), nil
	default:
		return state, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, action.Type)
	}
}

// MakeTurn places the current player's mark at (column, row). An empty player
// means "whoever's turn it is"; any other value must match the current player.
func MakeTurn(state entity.GameState, column, row int, player entity.Symbol) entity.GameState {
	if state.Status.IsTerminal() {
		return state
	}

	if err := ValidateMove(state, column, row, player); err != nil {
		state.Error = err.Error()
		return state
	}

	mark := state.CurrentPlayer
	state.Board = state.Board.Place(row, column, mark)
	state.Error = ""
	state.Status = DetermineStatus(state.Board)

	if state.Status == entity.StatusInProgress {
		state.CurrentPlayer = mark.Opponent()
	}

	return state
}

// ValidateMove - checks if the move is valid.
func ValidateMove(state entity.GameState, column, row int, player entity.Symbol) error {
	if !state.Board.InBounds(row, column) {
		return fmt.Errorf("%w: %w: column %d, row %d", apperror.ErrInvalidMove, apperror.ErrOutOfBounds, column, row)
	}

	if player != entity.Empty && player != state.CurrentPlayer {
		return fmt.Errorf("%w: %w: %s plays next", apperror.ErrInvalidMove, apperror.ErrNotYourTurn, state.CurrentPlayer)
	}

	if state.Board[row][column] != entity.Empty {
		return fmt.Errorf("%w: %w: column %d, row %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, column, row)
	}

	return nil
}

// DetermineStatus scans every row, column and both diagonals from scratch.
func DetermineStatus(board entity.Board) entity.Status {
	candidates := make([][]entity.Symbol, 0, board.Rows()+board.Cols()+2)
	candidates = append(candidates, lines.Columns(board)...)
	candidates = append(candidates, lines.Rows(board)...)
	candidates = append(candidates, lines.Diagonals(board)...)

	for _, line := range candidates {
		if lines.Uniform(line) {
			return entity.StatusWon
		}
	}

	if board.IsFull() {
		return entity.StatusDraw
	}

	return entity.StatusInProgress
}

func IsPlayable(state entity.GameState, column, row int) bool {
	return !state.Status.IsTerminal() && ValidateMove(state, column, row, entity.Empty) == nil
}

// Moves lists every empty cell while the game is not over.
func Moves(state entity.GameState) []entity.Position {
	if state.Status.IsTerminal() {
		return nil
	}

	var moves []entity.Position
	for row := 0; row < state.Board.Rows(); row++ {
		for column := 0; column < state.Board.Cols(); column++ {
			if IsPlayable(state, column, row) {
				moves = append(moves, entity.Position{Column: column, Row: row})
			}
		}
	}

	return moves
}
