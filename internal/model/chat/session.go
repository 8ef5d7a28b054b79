package chat

import "time"

// Session describes a live conversation bound to one browser session id.
type Session struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	PersonaID  string    `json:"personaId"`
	Turns      int       `json:"turns"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}
