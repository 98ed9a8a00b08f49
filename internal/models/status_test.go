package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestStatus(t *testing.T) {
	status, err := ParseRequestStatus("MATCHED")
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, status)

	_, err = ParseRequestStatus("SHIPPED")
	assert.Error(t, err)

	_, err = ParseRequestStatus("matched")
	assert.Error(t, err, "literals are case sensitive")
}

func TestCanTransitionTable(t *testing.T) {
	allowed := map[RequestStatus][]RequestStatus{
		StatusRequesting:       {StatusMatched, StatusMatchFail},
		StatusMatched:          {StatusDeliveredRequest, StatusMatchFail},
		StatusDeliveredRequest: {StatusDelivered},
		StatusDelivered:        {StatusReviewRequest},
		StatusReviewRequest:    {StatusReviewed},
		StatusMatchFail:        {},
		StatusReviewed:         {},
	}
	all := []RequestStatus{
		StatusRequesting, StatusMatched, StatusMatchFail,
		StatusDeliveredRequest, StatusDelivered, StatusReviewRequest, StatusReviewed,
	}

	for from, tos := range allowed {
		legal := map[RequestStatus]bool{}
		for _, to := range tos {
			legal[to] = true
		}
		for _, to := range all {
			assert.Equal(t, legal[to], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionNoSelfLoops(t *testing.T) {
	for _, s := range []RequestStatus{
		StatusRequesting, StatusMatched, StatusMatchFail,
		StatusDeliveredRequest, StatusDelivered, StatusReviewRequest, StatusReviewed,
	} {
		assert.False(t, s.CanTransition(s), "%s must not loop to itself", s)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusMatchFail.Terminal())
	assert.True(t, StatusReviewed.Terminal())
	assert.False(t, StatusRequesting.Terminal())
	assert.False(t, StatusReviewRequest.Terminal())
}
