package models

import "fmt"

// RequestStatus is the lifecycle state of an order request.
type RequestStatus string

const (
	StatusRequesting       RequestStatus = "REQUESTING"
	StatusMatched          RequestStatus = "MATCHED"
	StatusMatchFail        RequestStatus = "MATCH_FAIL"
	StatusDeliveredRequest RequestStatus = "DELIVERED_REQUEST"
	StatusDelivered        RequestStatus = "DELIVERED"
	StatusReviewRequest    RequestStatus = "REVIEW_REQUEST"
	StatusReviewed         RequestStatus = "REVIEWED"
)

// transitions holds the directed edges of the request lifecycle. The
// *_REQUEST states are proposals: one party suggests the advance and the
// counterpart confirms it with the follow-up status.
var transitions = map[RequestStatus][]RequestStatus{
	StatusRequesting:       {StatusMatched, StatusMatchFail},
	StatusMatched:          {StatusDeliveredRequest, StatusMatchFail},
	StatusDeliveredRequest: {StatusDelivered},
	StatusDelivered:        {StatusReviewRequest},
	StatusReviewRequest:    {StatusReviewed},
	StatusMatchFail:        {},
	StatusReviewed:         {},
}

// ParseRequestStatus validates a status literal coming off the wire.
func ParseRequestStatus(s string) (RequestStatus, error) {
	status := RequestStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown request status %q", s)
	}
	return status, nil
}

// CanTransition reports whether to is reachable from s in a single step.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outbound transitions.
func (s RequestStatus) Terminal() bool {
	return len(transitions[s]) == 0
}
