package models

import "time"

// Message — сообщение между двумя пользователями.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Subject     string    `json:"subject,omitempty"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasParticipant сообщает, является ли пользователь отправителем или получателем.
func (m Message) HasParticipant(userID string) bool {
	return m.SenderID == userID || m.RecipientID == userID
}
