package models

import "time"

// User is a marketplace account. Deactivated accounts keep their row; the
// email is anonymized on deactivation so the uniqueness constraint survives.
type User struct {
	ID            int       `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Name          string    `db:"name" json:"name"`
	Gender        string    `db:"gender" json:"gender"`
	Address       string    `db:"address" json:"address"`
	AddressDetail string    `db:"address_detail" json:"address_detail"`
	ContactStart  string    `db:"contact_start" json:"contact_start"`
	ContactEnd    string    `db:"contact_end" json:"contact_end"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	ImagePath     string    `db:"image_path" json:"image_path"`
	Deactivated   bool      `db:"deactivated" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
