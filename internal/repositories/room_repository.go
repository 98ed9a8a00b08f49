package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"errand-service/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository abstracts chatting-room persistence.
type RoomRepository interface {
	FindOrCreateRoom(ctx context.Context, roomKey string, participantIDs []int) (models.Room, error)
	GetRoomByKey(ctx context.Context, roomKey string) (models.Room, error)
	IsParticipant(ctx context.Context, roomID int, userID int) (bool, error)
	ListRoomsForUser(ctx context.Context, userID int) ([]models.Room, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// FindOrCreateRoom resolves the room for a participant set idempotently.
// Lookup runs before create; if two creators race, UNIQUE(room_key) fails the
// loser and the insert is retried as a lookup.
func (r *RoomRepo) FindOrCreateRoom(ctx context.Context, roomKey string, participantIDs []int) (models.Room, error) {
	room, err := r.GetRoomByKey(ctx, roomKey)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, ErrRoomNotFound) {
		return models.Room{}, err
	}

	room, err = r.createRoom(ctx, roomKey, participantIDs)
	if isUniqueViolation(err) {
		return r.GetRoomByKey(ctx, roomKey)
	}
	return room, err
}

func (r *RoomRepo) createRoom(ctx context.Context, roomKey string, participantIDs []int) (models.Room, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Room{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var room models.Room
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO chatting_rooms (room_key) VALUES ($1) RETURNING id, room_key, created_at`,
		roomKey,
	).Scan(&room.ID, &room.RoomKey, &room.CreatedAt); err != nil {
		return models.Room{}, err
	}

	for _, id := range participantIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO room_participants (room_id, user_id) VALUES ($1, $2)`,
			room.ID, id); err != nil {
			return models.Room{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// GetRoomByKey fetches a room by its canonical key.
func (r *RoomRepo) GetRoomByKey(ctx context.Context, roomKey string) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room, `SELECT * FROM chatting_rooms WHERE room_key=$1`, roomKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}

// IsParticipant checks whether a user belongs to the room.
func (r *RoomRepo) IsParticipant(ctx context.Context, roomID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM room_participants WHERE room_id=$1 AND user_id=$2)`,
		roomID, userID)
	return exists, err
}

// ListRoomsForUser returns rooms that include the user, newest first.
func (r *RoomRepo) ListRoomsForUser(ctx context.Context, userID int) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.SelectContext(ctx, &rooms,
		`SELECT cr.* FROM chatting_rooms cr
         INNER JOIN room_participants rp ON rp.room_id = cr.id
         WHERE rp.user_id=$1 ORDER BY cr.created_at DESC`, userID)
	return rooms, err
}
