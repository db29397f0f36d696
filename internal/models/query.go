package models

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	Question  string `json:"question"`             // user’s natural‑language question
	SessionID string `json:"session_id,omitempty"` // minted by the server when empty
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}
