package websocket

// ErrorFrame is written back when a turn fails. The connection stays open.
type ErrorFrame struct {
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error"`
}

// LimiterLocalsKey is where the upgrade middleware stores the limiter whose
// slot the connection holds.
const LimiterLocalsKey = "ws_limiter"
