package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsTerminal(t *testing.T) {
	t.Run("Won and draw are terminal", func(t *testing.T) {
		assert.True(t, StatusWon.IsTerminal())
		assert.True(t, StatusDraw.IsTerminal())
	})

	t.Run("Initializing and in progress are not terminal", func(t *testing.T) {
		assert.False(t, StatusInitializing.IsTerminal())
		assert.False(t, StatusInProgress.IsTerminal())
	})
}

func TestSymbol_Opponent(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.True(t, PlayerX.IsPlayer())
	assert.False(t, Empty.IsPlayer())
}

func TestGameState_Winner(t *testing.T) {
	t.Run("Returns current player when won", func(t *testing.T) {
		// Given: a state won by O
		state := GameState{Status: StatusWon, CurrentPlayer: PlayerO}

		// Then: O is the winner
		assert.Equal(t, PlayerO, state.Winner())
		assert.True(t, state.IsFinished())
	})

	t.Run("Returns empty when nobody won", func(t *testing.T) {
		// Given: a drawn state
		state := GameState{Status: StatusDraw, CurrentPlayer: PlayerX}

		// Then: there is no winner
		assert.Equal(t, Empty, state.Winner())
	})
}

func TestBoard_NewBoard(t *testing.T) {
	// When: creating a 6x7 board
	board := NewBoard(6, 7)

	// Then: it has the requested dimensions and every cell is empty
	require.Equal(t, 6, board.Rows())
	require.Equal(t, 7, board.Cols())
	for y := 0; y < board.Rows(); y++ {
		for x := 0; x < board.Cols(); x++ {
			assert.Equal(t, Empty, board.At(y, x))
		}
	}
	assert.False(t, board.IsFull())
}

func TestBoard_Place(t *testing.T) {
	t.Run("Returns a new board and leaves the original untouched", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard(3, 3)

		// When: placing X in the middle
		next := board.Place(1, 1, PlayerX)

		// Then: only the new board holds the mark
		assert.Equal(t, PlayerX, next.At(1, 1))
		assert.Equal(t, Empty, board.At(1, 1))
	})

	t.Run("Shares untouched rows", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard(3, 3)

		// When: placing on row 0
		next := board.Place(0, 2, PlayerO)

		// Then: rows 1 and 2 are the same backing arrays
		assert.Same(t, &board[1][0], &next[1][0])
		assert.Same(t, &board[2][0], &next[2][0])
		assert.NotSame(t, &board[0][0], &next[0][0])
	})
}

func TestBoard_Clone(t *testing.T) {
	// Given: a board with one mark
	board := NewBoard(3, 3).Place(2, 2, PlayerX)

	// When: cloning it and writing into the clone
	clone := board.Clone()
	clone[0][0] = PlayerO

	// Then: the original is unaffected
	assert.Equal(t, Empty, board.At(0, 0))
	assert.Equal(t, PlayerX, clone.At(2, 2))
}

func TestBoard_Bounds(t *testing.T) {
	board := NewBoard(6, 7)

	assert.True(t, board.InBounds(5, 6))
	assert.False(t, board.InBounds(6, 0))
	assert.False(t, board.InBounds(0, 7))
	assert.False(t, board.InBounds(-1, 0))
	assert.Equal(t, Empty, board.At(-1, -1))
}

func TestBoard_IsFull(t *testing.T) {
	// Given: a 3x3 board filled cell by cell
	board := NewBoard(3, 3)
	mark := PlayerX
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			// Then: it is not full before the last cell
			assert.False(t, board.IsFull())
			board = board.Place(y, x, mark)
			mark = mark.Opponent()
		}
	}

	assert.True(t, board.IsFull())
}

func TestTable_Clone(t *testing.T) {
	// Given: a table
	table := &Table{ID: "123", State: GameState{Board: NewBoard(3, 3)}}

	// When: cloning and mutating the clone's board in place
	clone := table.Clone()
	clone.State.Board[0][0] = PlayerX

	// Then: the original keeps its empty board
	assert.Equal(t, "123", clone.ID)
	assert.Equal(t, Empty, table.State.Board.At(0, 0))
}
