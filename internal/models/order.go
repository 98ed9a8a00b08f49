package models

import (
	"fmt"
	"time"
)

// OrderRole distinguishes who posted the order. Shopper and runner orders
// share one shape; the role tag replaces two parallel workflows.
type OrderRole string

const (
	RoleShopper OrderRole = "shopper"
	RoleRunner  OrderRole = "runner"
)

// ParseOrderRole validates a role literal.
func ParseOrderRole(s string) (OrderRole, error) {
	switch role := OrderRole(s); role {
	case RoleShopper, RoleRunner:
		return role, nil
	default:
		return "", fmt.Errorf("unknown order role %q", s)
	}
}

// OrderPriority classifies how urgent an order is.
type OrderPriority string

const (
	PriorityFree   OrderPriority = "FREE"
	PriorityNormal OrderPriority = "NORMAL"
	PriorityUrgent OrderPriority = "URGENT"
)

// ParseOrderPriority validates a priority literal.
func ParseOrderPriority(s string) (OrderPriority, error) {
	switch p := OrderPriority(s); p {
	case PriorityFree, PriorityNormal, PriorityUrgent:
		return p, nil
	default:
		return "", fmt.Errorf("unknown order priority %q", s)
	}
}

// Order is a posted errand: what the owner wants bought or delivered,
// within which time window, and for how much.
type Order struct {
	ID             int           `db:"id" json:"id"`
	OwnerID        int           `db:"owner_id" json:"owner_id"`
	Role           OrderRole     `db:"role" json:"role"`
	Title          string        `db:"title" json:"title"`
	Message        string        `db:"message" json:"message"`
	Priority       OrderPriority `db:"priority" json:"priority"`
	ReceiveStart   time.Time     `db:"receive_start" json:"receive_start"`
	ReceiveEnd     time.Time     `db:"receive_end" json:"receive_end"`
	Address        string        `db:"address" json:"address"`
	EstimatedPrice int           `db:"estimated_price" json:"estimated_price"`
	Tip            int           `db:"tip" json:"tip"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`

	Items  []OrderItem  `json:"items,omitempty"`
	Images []OrderImage `json:"images,omitempty"`
}

// OrderItem is a single line item of an order.
type OrderItem struct {
	ID      int    `db:"id" json:"id"`
	OrderID int    `db:"order_id" json:"order_id"`
	Name    string `db:"name" json:"name"`
	Count   int    `db:"count" json:"count"`
	Price   int    `db:"price" json:"price"`
}

// OrderImage is an attachment uploaded with an order.
type OrderImage struct {
	ID       int    `db:"id" json:"id"`
	OrderID  int    `db:"order_id" json:"order_id"`
	Filename string `db:"filename" json:"filename"`
	Size     int64  `db:"size" json:"size"`
	Path     string `db:"path" json:"path"`
}
