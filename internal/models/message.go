package models

import "time"

// MessageTypeText is the default message type.
const MessageTypeText = "text"

// Message is an append-only chat message. Ordering within a room is by
// created_at with the id as tie-break.
type Message struct {
	ID        int       `db:"id" json:"id"`
	RoomID    int       `db:"room_id" json:"room_id"`
	SenderID  int       `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	Type      string    `db:"message_type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RoomEvent is broadcast through websockets.
type RoomEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}
