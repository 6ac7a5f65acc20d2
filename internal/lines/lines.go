// Package lines extracts lines of cells from a board and evaluates them.
// Both engines build on it: connect four radiates short lines from the last
// placement, tic-tac-toe scans every full row, column and diagonal.
package lines

import "github.com/rocketscienceinc/gridgames-backend/internal/entity"

// Direction is a unit step along a line, in rows and columns.
type Direction struct {
	DRow int
	DCol int
}

var (
	Vertical   = Direction{DRow: 1, DCol: 0}
	Horizontal = Direction{DRow: 0, DCol: 1}
	// Rising runs from bottom-left to top-right.
	Rising = Direction{DRow: -1, DCol: 1}
	// Falling runs from top-left to bottom-right.
	Falling = Direction{DRow: 1, DCol: 1}

	Orientations = []Direction{Vertical, Horizontal, Rising, Falling}
)

// Through returns the in-bounds cells of the line along dir that passes
// through (row, col), at most reach cells on either side, ordered from the
// negative end to the positive end.
func Through(board entity.Board, row, col int, dir Direction, reach int) []entity.Symbol {
	line := make([]entity.Symbol, 0, 2*reach+1)

	for i := reach; i >= 1; i-- {
		r, c := row-i*dir.DRow, col-i*dir.DCol
		if board.InBounds(r, c) {
			line = append(line, board[r][c])
		}
	}

	line = append(line, board.At(row, col))

	for i := 1; i <= reach; i++ {
		r, c := row+i*dir.DRow, col+i*dir.DCol
		if !board.InBounds(r, c) {
			break
		}
		line = append(line, board[r][c])
	}

	return line
}

// LongestRun returns the length of the longest contiguous run of sym.
// Empty cells and any other symbol end a run.
func LongestRun(line []entity.Symbol, sym entity.Symbol) int {
	longest, current := 0, 0

	for _, cell := range line {
		if cell != sym || cell == entity.Empty {
			current = 0
			continue
		}

		current++
		if current > longest {
			longest = current
		}
	}

	return longest
}

// Uniform reports whether every cell is non-empty and equal to the first one.
func Uniform(line []entity.Symbol) bool {
	if len(line) == 0 {
		return false
	}

	first := line[0]
	if first == entity.Empty {
		return false
	}

	for _, cell := range line[1:] {
		if cell != first {
			return false
		}
	}

	return true
}

func Rows(board entity.Board) [][]entity.Symbol {
	rows := make([][]entity.Symbol, 0, board.Rows())
	for _, row := range board {
		rows = append(rows, row)
	}

	return rows
}

func Columns(board entity.Board) [][]entity.Symbol {
	columns := make([][]entity.Symbol, 0, board.Cols())
	for x := 0; x < board.Cols(); x++ {
		column := make([]entity.Symbol, 0, board.Rows())
		for y := 0; y < board.Rows(); y++ {
			column = append(column, board[y][x])
		}
		columns = append(columns, column)
	}

	return columns
}

// Diagonals returns the main diagonal (top-left to bottom-right) and the anti
// diagonal (top-right to bottom-left) of a square board.
func Diagonals(board entity.Board) [][]entity.Symbol {
	size := board.Rows()
	main := make([]entity.Symbol, 0, size)
	anti := make([]entity.Symbol, 0, size)

	for i := 0; i < size; i++ {
		main = append(main, board.At(i, i))
		anti = append(anti, board.At(i, size-1-i))
	}

	return [][]entity.Symbol{main, anti}
}
