package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"errand-service/internal/models"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient(1, nil, ConnInfo{ConnID: "a", UserID: 7})
	assert.Len(t, hub.rooms, 1)
	assert.Len(t, hub.connInfo, 1)

	info, ok := hub.getConnInfo(1, nil)
	assert.True(t, ok)
	assert.Equal(t, 7, info.UserID)

	hub.RemoveClient(1, nil)
	assert.Empty(t, hub.rooms)
	assert.Empty(t, hub.connInfo)
}

func TestHubRemoveUnknownClient(t *testing.T) {
	hub := NewHub()
	hub.RemoveClient(99, nil)
	assert.Empty(t, hub.rooms)
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()
	// No subscribers: must be a no-op, not a panic.
	hub.BroadcastRoomMessage(1, models.Message{ID: 1, RoomID: 1, Content: "hi"})
}
