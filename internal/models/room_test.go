package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomKeyCanonical(t *testing.T) {
	assert.Equal(t, "1-2-3", RoomKey([]int{3, 1, 2}))
	assert.Equal(t, "1-2-3", RoomKey([]int{2, 3, 1}))
	assert.Equal(t, "1-2-3", RoomKey([]int{1, 2, 3}))
}

func TestRoomKeyNumericSort(t *testing.T) {
	// Sorting is numeric, not lexicographic: 10 sorts after 2.
	assert.Equal(t, "2-10", RoomKey([]int{10, 2}))
}

func TestRoomKeyDeduplicates(t *testing.T) {
	assert.Equal(t, "1-2", RoomKey([]int{2, 1, 2, 1}))
}

func TestRoomKeySingleParticipant(t *testing.T) {
	assert.Equal(t, "7", RoomKey([]int{7, 7}))
}

func TestDedupeIDs(t *testing.T) {
	assert.Equal(t, []int{1, 2, 5}, DedupeIDs([]int{5, 2, 1, 2, 5}))
	assert.Empty(t, DedupeIDs(nil))
}
