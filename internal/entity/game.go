package entity

type Symbol string

const (
	PlayerX Symbol = "X"
	PlayerO Symbol = "O"

	Empty Symbol = ""
)

// Opponent returns the other player's symbol.
func (that Symbol) Opponent() Symbol {
	if that == PlayerX {
		return PlayerO
	}

	return PlayerX
}

func (that Symbol) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Status string

const (
	StatusInitializing Status = "initializing"
	StatusInProgress   Status = "in_progress"
	StatusWon          Status = "won"
	StatusDraw         Status = "draw"
)

// IsTerminal reports whether the game is over and only reset (or resize) recovers from it.
func (that Status) IsTerminal() bool {
	return that == StatusWon || that == StatusDraw
}

type GameKind string

const (
	KindConnectFour GameKind = "connect-four"
	KindTicTacToe   GameKind = "tic-tac-toe"
)

// Options configures a fresh game.
type Options struct {
	// BoardSize only applies to tic-tac-toe.
	BoardSize int `json:"board_size,omitempty"`
}

// GameState is one immutable snapshot of a game.
type GameState struct {
	Kind          GameKind `json:"kind"`
	Board         Board    `json:"board"`
	CurrentPlayer Symbol   `json:"current_player"`
	Status        Status   `json:"status"`
	BoardSize     int      `json:"board_size,omitempty"`

	// Error annotates the last rejected move and is cleared by the next legal one.
	Error string `json:"error,omitempty"`
}

// Winner returns the player who won, or Empty while nobody has.
func (that GameState) Winner() Symbol {
	if that.Status != StatusWon {
		return Empty
	}

	return that.CurrentPlayer
}

func (that GameState) IsFinished() bool {
	return that.Status.IsTerminal()
}
