package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.Empty
)

func play(t *testing.T, state entity.GameState, moves ...entity.Position) entity.GameState {
	t.Helper()

	for _, move := range moves {
		var err error
		state, err = Transition(state, entity.PlayTurn(move.Column, move.Row))
		require.NoError(t, err)
		require.Empty(t, state.Error, "move %+v", move)
	}

	return state
}

func at(column, row int) entity.Position {
	return entity.Position{Column: column, Row: row}
}

func TestInitialize(t *testing.T) {
	t.Run("Defaults to a 3x3 board", func(t *testing.T) {
		// When: a game is initialized without options
		state := Initialize(entity.Options{})

		// Then: it is an empty 3x3 board with X to move
		expected := entity.GameState{
			Kind:          entity.KindTicTacToe,
			Board:         entity.Board{{e, e, e}, {e, e, e}, {e, e, e}},
			CurrentPlayer: x,
			Status:        entity.StatusInitializing,
			BoardSize:     3,
		}

		require.Equal(t, expected, state)
	})

	t.Run("Uses the requested size", func(t *testing.T) {
		state := Initialize(entity.Options{BoardSize: 5})

		assert.Equal(t, 5, state.BoardSize)
		assert.Equal(t, entity.NewBoard(5, 5), state.Board)
	})

	t.Run("Clamps small sizes to the minimum", func(t *testing.T) {
		state := Initialize(entity.Options{BoardSize: 1})

		assert.Equal(t, MinBoardSize, state.BoardSize)
		assert.Equal(t, MinBoardSize, state.Board.Rows())
	})
}

func TestGame_MakeTurn(t *testing.T) {
	t.Run("MakeTurn", func(t *testing.T) {
		// Given: a new game
		state := Initialize(entity.Options{})

		// When: player X makes a turn
		next, err := Transition(state, entity.PlayTurn(0, 0))
		require.NoError(t, err)

		// Then: the game state should reflect the turn and queue change
		expected := entity.GameState{
			Kind:          entity.KindTicTacToe,
			Board:         entity.Board{{x, e, e}, {e, e, e}, {e, e, e}},
			CurrentPlayer: o,
			Status:        entity.StatusInProgress,
			BoardSize:     3,
		}

		require.Equal(t, expected, next)

		// Then: the previous snapshot is unchanged
		assert.Equal(t, Initialize(entity.Options{}), state)
	})

	t.Run("Any empty cell is playable", func(t *testing.T) {
		// Given: a new game
		state := Initialize(entity.Options{})

		for row := 0; row < 3; row++ {
			for column := 0; column < 3; column++ {
				// Then: every cell accepts a move
				assert.True(t, IsPlayable(state, column, row))

				next, err := Transition(state, entity.PlayTurn(column, row))
				require.NoError(t, err)
				assert.Empty(t, next.Error)
				assert.Equal(t, x, next.Board.At(row, column))
			}
		}
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: player X moved to the top-left cell
		state := play(t, Initialize(entity.Options{}), at(0, 0))

		// When: player O tries to make a move to the same square
		next, err := Transition(state, entity.PlayTurn(0, 0))
		require.NoError(t, err)

		// Then: the move is annotated and the game state remains unchanged
		assert.Contains(t, next.Error, apperror.ErrCellOccupied.Error())
		assert.Equal(t, state.Board, next.Board)
		assert.Equal(t, o, next.CurrentPlayer)
		assert.Equal(t, entity.StatusInProgress, next.Status)
		assert.False(t, IsPlayable(state, 0, 0))
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a new game
		state := Initialize(entity.Options{})

		// When: player O tries to make a move when it is player X's turn
		next, err := Transition(state, entity.PlayTurnAs(1, 1, o))
		require.NoError(t, err)

		// Then: the move is annotated and nothing is placed
		assert.Contains(t, next.Error, apperror.ErrNotYourTurn.Error())
		assert.Equal(t, state.Board, next.Board)
		assert.Equal(t, x, next.CurrentPlayer)
	})

	t.Run("Matching symbol is accepted", func(t *testing.T) {
		next, err := Transition(Initialize(entity.Options{}), entity.PlayTurnAs(1, 1, x))

		require.NoError(t, err)
		assert.Empty(t, next.Error)
		assert.Equal(t, x, next.Board.At(1, 1))
	})

	t.Run("Invalid Cell", func(t *testing.T) {
		// Given: a new game
		state := Initialize(entity.Options{})

		// When: an invalid cell is passed (greater than the range)
		next, err := Transition(state, entity.PlayTurn(3, 0))
		require.NoError(t, err)

		// Then: the move is annotated as out of bounds
		assert.Contains(t, next.Error, apperror.ErrOutOfBounds.Error())
		assert.ErrorIs(t, ValidateMove(state, -1, 0, e), apperror.ErrOutOfBounds)
	})

	t.Run("Annotation is cleared by the next legal move", func(t *testing.T) {
		state := Initialize(entity.Options{})
		state, err := Transition(state, entity.PlayTurn(7, 7))
		require.NoError(t, err)
		require.NotEmpty(t, state.Error)

		state, err = Transition(state, entity.PlayTurn(2, 2))
		require.NoError(t, err)

		assert.Empty(t, state.Error)
	})
}

func TestGame_Win(t *testing.T) {
	t.Run("Top row", func(t *testing.T) {
		// Given: X takes the top row while O plays elsewhere
		state := play(t, Initialize(entity.Options{}),
			at(0, 0), at(1, 1),
			at(1, 0), at(2, 2),
			at(2, 0),
		)

		// Then: X has won and keeps the turn
		assert.Equal(t, entity.StatusWon, state.Status)
		assert.Equal(t, x, state.CurrentPlayer)
		assert.Equal(t, x, state.Winner())
	})

	t.Run("Top row built right to left", func(t *testing.T) {
		state := play(t, Initialize(entity.Options{}),
			at(2, 0), at(1, 1),
			at(1, 0), at(2, 2),
			at(0, 0),
		)

		assert.Equal(t, entity.StatusWon, state.Status)
		assert.Equal(t, x, state.Winner())
	})

	t.Run("Column on a 4x4 board", func(t *testing.T) {
		state := play(t, Initialize(entity.Options{BoardSize: 4}),
			at(0, 0), at(1, 0),
			at(0, 1), at(1, 1),
			at(0, 2), at(1, 2),
			at(3, 3), at(1, 3),
		)

		assert.Equal(t, entity.StatusWon, state.Status)
		assert.Equal(t, o, state.Winner())
	})

	t.Run("Full board with a line is won, not drawn", func(t *testing.T) {
		state := play(t, Initialize(entity.Options{}),
			at(0, 0), at(1, 0),
			at(2, 0), at(0, 1),
			at(1, 1), at(2, 1),
			at(1, 2), at(0, 2),
			at(2, 2),
		)

		assert.True(t, state.Board.IsFull())
		assert.Equal(t, entity.StatusWon, state.Status)
		assert.Equal(t, x, state.Winner())
	})
}

func TestGame_Draw(t *testing.T) {
	// Given: nine moves with no three in a row
	state := play(t, Initialize(entity.Options{}),
		at(0, 0), at(1, 0),
		at(2, 0), at(1, 1),
		at(0, 1), at(2, 1),
		at(1, 2), at(0, 2),
		at(2, 2),
	)

	// Then: the game is a draw and X, who moved last, stays current
	assert.Equal(t, entity.StatusDraw, state.Status)
	assert.Equal(t, x, state.CurrentPlayer)
	assert.Equal(t, e, state.Winner())
	assert.Empty(t, Moves(state))
}

func TestGame_Terminal(t *testing.T) {
	won := play(t, Initialize(entity.Options{}),
		at(0, 0), at(1, 1),
		at(1, 0), at(2, 2),
		at(2, 0),
	)

	t.Run("Move After Game Finished", func(t *testing.T) {
		// When: player O tries to make a move after the game is over
		next, err := Transition(won, entity.PlayTurn(0, 2))

		// Then: nothing happens
		require.NoError(t, err)
		assert.Equal(t, won, next)
	})

	t.Run("Reset from a won game", func(t *testing.T) {
		next, err := Transition(won, entity.Reset())

		require.NoError(t, err)
		assert.Equal(t, Initialize(entity.Options{}), next)
	})

	t.Run("Reset keeps the board size", func(t *testing.T) {
		state := play(t, Initialize(entity.Options{BoardSize: 5}), at(4, 4))

		next, err := Transition(state, entity.Reset())

		require.NoError(t, err)
		assert.Equal(t, Initialize(entity.Options{BoardSize: 5}), next)
	})
}

func TestGame_Resize(t *testing.T) {
	t.Run("Rejected while in progress", func(t *testing.T) {
		// Given: a game in progress
		state := play(t, Initialize(entity.Options{}), at(0, 0))
		require.Equal(t, entity.StatusInProgress, state.Status)

		// When: resizing to 5
		next, err := Transition(state, entity.Resize(5))

		// Then: the state is unchanged
		require.NoError(t, err)
		assert.Equal(t, state, next)
	})

	t.Run("Accepted after a draw", func(t *testing.T) {
		// Given: a drawn game
		state := play(t, Initialize(entity.Options{}),
			at(0, 0), at(1, 0),
			at(2, 0), at(1, 1),
			at(0, 1), at(2, 1),
			at(1, 2), at(0, 2),
			at(2, 2),
		)
		require.Equal(t, entity.StatusDraw, state.Status)

		// When: resizing to 5
		next, err := Transition(state, entity.Resize(5))

		// Then: an empty 5x5 board is ready
		require.NoError(t, err)
		assert.Equal(t, entity.NewBoard(5, 5), next.Board)
		assert.Equal(t, 5, next.BoardSize)
		assert.Equal(t, x, next.CurrentPlayer)
		assert.Equal(t, entity.StatusInitializing, next.Status)
	})

	t.Run("Accepted before the first move and clamped", func(t *testing.T) {
		next, err := Transition(Initialize(entity.Options{}), entity.Resize(2))

		require.NoError(t, err)
		assert.Equal(t, Initialize(entity.Options{BoardSize: 3}), next)
	})
}

func TestGame_UnknownAction(t *testing.T) {
	state := Initialize(entity.Options{})

	next, err := Transition(state, entity.Action{Type: "undo"})

	require.ErrorIs(t, err, apperror.ErrUnknownAction)
	assert.Equal(t, state, next)
}

func TestGame_DetermineStatus(t *testing.T) {
	t.Run("Winner X", func(t *testing.T) {
		// Given: a board where player X has a winning column
		board := entity.Board{{x, o, e}, {x, o, e}, {x, e, e}}

		// Then: the game is won
		require.Equal(t, entity.StatusWon, DetermineStatus(board))
	})

	t.Run("Anti diagonal", func(t *testing.T) {
		board := entity.Board{{x, x, o}, {e, o, e}, {o, e, x}}

		require.Equal(t, entity.StatusWon, DetermineStatus(board))
	})

	t.Run("Ongoing Game", func(t *testing.T) {
		// Given: a board where there is no winner yet
		board := entity.Board{{x, o, x}, {e, o, e}, {x, e, e}}

		// Then: the game continues
		require.Equal(t, entity.StatusInProgress, DetermineStatus(board))
	})

	t.Run("Tie", func(t *testing.T) {
		// Given: a full board without a line
		board := entity.Board{{o, x, o}, {o, x, x}, {x, o, x}}

		// Then: the game is a tie
		assert.Equal(t, entity.StatusDraw, DetermineStatus(board))
	})
}

func TestMoves(t *testing.T) {
	state := Initialize(entity.Options{})
	assert.Len(t, Moves(state), 9)

	state = play(t, state, at(1, 1))
	moves := Moves(state)

	assert.Len(t, moves, 8)
	assert.NotContains(t, moves, at(1, 1))
}

func TestEngine(t *testing.T) {
	engine := Engine{}

	assert.Equal(t, entity.KindTicTacToe, engine.Kind())
	assert.Equal(t, Initialize(entity.Options{BoardSize: 4}), engine.Initialize(entity.Options{BoardSize: 4}))

	next, err := engine.Transition(engine.Initialize(entity.Options{}), entity.PlayTurn(0, 0))
	require.NoError(t, err)
	assert.Len(t, engine.Moves(next), 8)
}
