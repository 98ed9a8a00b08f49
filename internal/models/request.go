package models

import "time"

// OrderRequest links an order to a counterpart user who offered to take it.
// At most one non-terminal request may exist per (order, counterpart) pair.
type OrderRequest struct {
	ID            int           `db:"id" json:"id"`
	OrderID       int           `db:"order_id" json:"order_id"`
	CounterpartID int           `db:"counterpart_id" json:"counterpart_id"`
	Status        RequestStatus `db:"status" json:"request_status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
