package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/engine"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
)

const (
	actionSessionNew          = "session:new"
	actionSessionGet          = "session:get"
	actionSessionTurn         = "session:turn"
	actionSessionComputerTurn = "session:computer-turn"
	actionSessionRestart      = "session:restart"
	actionSessionMode         = "session:mode"
	actionSessionMark         = "session:mark"
	actionSessionHint         = "session:hint"
	actionError               = "error"
)

// Message - a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload - fields a client may send, each action reads the ones it needs.
type RequestPayload struct {
	SessionID string      `json:"session_id,omitempty"`
	Mode      string      `json:"mode,omitempty"`
	Mark      entity.Mark `json:"mark,omitempty"`
	Cell      *int        `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Session *entity.Session `json:"session,omitempty"`
	Hint    *engine.Move    `json:"hint,omitempty"`
	Error   string          `json:"error,omitempty"`
}
