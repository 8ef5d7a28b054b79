package chat

import "time"

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message records one turn of a conversation.
type Message struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
