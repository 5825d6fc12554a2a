package entity

import "time"

// Account is an authenticatable login identity stored in the `accounts`
// table. Accounts are never hard-deleted; IsActive=false disables login.
type Account struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	BadgeNumber  *string    `db:"badge_number"`
	IDImage      *string    `db:"id_image"`
	IsAdmin      bool       `db:"is_admin"`
	IsActive     bool       `db:"is_active"`
	LastLogin    *time.Time `db:"last_login"`
	DateJoined   time.Time  `db:"date_joined"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
