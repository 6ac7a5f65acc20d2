package entity

type ActionType string

const (
	ActionTurn   ActionType = "turn"
	ActionReset  ActionType = "reset"
	ActionResize ActionType = "resize"
)

// Action is a tagged variant: Column, Row and Symbol belong to turn, Size to resize.
type Action struct {
	Type   ActionType `json:"type"`
	Column int        `json:"column"`
	Row    int        `json:"row"`
	Symbol Symbol     `json:"symbol,omitempty"`
	Size   int        `json:"size,omitempty"`
}

func PlayTurn(column, row int) Action {
	return Action{Type: ActionTurn, Column: column, Row: row}
}

// PlayTurnAs is a turn that names the symbol expected to move.
func PlayTurnAs(column, row int, sym Symbol) Action {
	return Action{Type: ActionTurn, Column: column, Row: row, Symbol: sym}
}

func Reset() Action {
	return Action{Type: ActionReset}
}

func Resize(size int) Action {
	return Action{Type: ActionResize, Size: size}
}
