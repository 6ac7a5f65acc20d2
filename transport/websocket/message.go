package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	actionGet    = "get"
	actionTurn   = "turn"
	actionReset  = "reset"
	actionResize = "resize"

	actionState = "state"
	actionError = "error"
)

var errBadPayload = errors.New("bad payload")

// Message is one frame in either direction.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// turnPayload leaves Row out to drop into the column.
type turnPayload struct {
	Column int           `json:"column"`
	Row    *int          `json:"row"`
	Symbol entity.Symbol `json:"symbol"`
}

type resizePayload struct {
	Size int `json:"size"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", errBadPayload)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", errBadPayload, err)
	}

	return nil
}

func newMessage(action string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", action, err)
	}

	return Message{Action: action, Payload: raw}, nil
}
