package entity

import "time"

// Table is a hosted game: the single GameState a presentation client drives.
type Table struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy whose board shares no rows with the receiver.
func (that *Table) Clone() *Table {
	clone := *that
	clone.State.Board = that.State.Board.Clone()

	return &clone
}
