package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Room is a chat room shared by a fixed participant set.
type Room struct {
	ID        int       `db:"id" json:"id"`
	RoomKey   string    `db:"room_key" json:"room_key"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RoomKey derives the canonical room identifier for a participant set:
// ids deduplicated, sorted ascending numerically, joined with "-". The key is
// a pure function of the set, so any ordering of the same members yields the
// same room.
func RoomKey(participantIDs []int) string {
	ids := DedupeIDs(participantIDs)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "-")
}

// DedupeIDs returns the distinct ids in ascending order.
func DedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
