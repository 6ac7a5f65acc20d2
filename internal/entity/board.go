package entity

// Board is a rows x columns grid indexed [row][column], row 0 is the top.
// A Board handed out by an engine is never mutated; Place returns a new one.
type Board [][]Symbol

// Position addresses a single cell.
type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

func NewBoard(rows, cols int) Board {
	board := make(Board, rows)
	for y := range board {
		board[y] = make([]Symbol, cols)
	}

	return board
}

func (that Board) Rows() int {
	return len(that)
}

func (that Board) Cols() int {
	if len(that) == 0 {
		return 0
	}

	return len(that[0])
}

func (that Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.Rows() && col >= 0 && col < that.Cols()
}

// At returns the symbol at (row, col), or Empty when out of bounds.
func (that Board) At(row, col int) Symbol {
	if !that.InBounds(row, col) {
		return Empty
	}

	return that[row][col]
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// Place returns a copy of the board with sym written at (row, col).
// Only the touched row is copied, the others are shared with the receiver.
func (that Board) Place(row, col int, sym Symbol) Board {
	next := make(Board, len(that))
	copy(next, that)

	updated := make([]Symbol, len(that[row]))
	copy(updated, that[row])
	updated[col] = sym
	next[row] = updated

	return next
}

// Clone returns a deep copy that shares no rows with the receiver.
func (that Board) Clone() Board {
	if that == nil {
		return nil
	}

	next := make(Board, len(that))
	for y, row := range that {
		next[y] = make([]Symbol, len(row))
		copy(next[y], row)
	}

	return next
}
