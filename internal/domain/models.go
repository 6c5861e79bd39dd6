package domain

import "time"

// User is a Telegram account known to the shop. Rows are created on the
// first /start contact and never deleted.
type User struct {
	ID        int64     `db:"id"`
	Username  *string   `db:"username"`
	FirstName *string   `db:"first_name"`
	CreatedAt time.Time `db:"created_at"`
}

// Phone is a single catalog variant: a concrete (model, storage, color)
// combination with its own price and stock level. Variants with zero quantity
// stay in the table for historical interest records but are hidden from every
// catalog-facing query.
type Phone struct {
	ID       int64   `db:"id"`
	Model    string  `db:"model"`
	Storage  int     `db:"storage"`
	Color    string  `db:"color"`
	Price    int64   `db:"price"`
	Photo    *string `db:"photo"`
	Quantity int     `db:"quantity"`
	Priority int     `db:"priority"`
}

// Interest records that a user viewed or selected a catalog variant.
// At most one row exists per (user, phone) pair; repeat interest refreshes
// NotedAt.
type Interest struct {
	UserID  int64     `db:"user_id"`
	PhoneID int64     `db:"phone_id"`
	NotedAt time.Time `db:"noted_at"`
}
