package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"errand-service/internal/models"
)

// MessageRepository defines interactions with the append-only message ledger.
type MessageRepository interface {
	CreateMessage(ctx context.Context, roomID int, senderID int, content string, messageType string) (models.Message, error)
	PageMessages(ctx context.Context, roomID int, limit int, offset int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage appends a message to a room.
func (r *MessageRepo) CreateMessage(ctx context.Context, roomID int, senderID int, content string, messageType string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO chatting_messages (room_id, sender_id, content, message_type) VALUES ($1, $2, $3, $4)
         RETURNING id, room_id, sender_id, content, message_type, created_at`,
		roomID, senderID, content, messageType,
	).Scan(&msg.ID, &msg.RoomID, &msg.SenderID, &msg.Content, &msg.Type, &msg.CreatedAt)
	return msg, err
}

// PageMessages returns a restartable slice of the room feed, most recent
// first. Ties on created_at fall back to insertion order via the id.
func (r *MessageRepo) PageMessages(ctx context.Context, roomID int, limit int, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT * FROM chatting_messages WHERE room_id=$1
         ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		roomID, limit, offset)
	return msgs, err
}
