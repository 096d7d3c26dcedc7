package identity

import "time"

// UserTypeAdmin is the capability value granting access to the payout API.
// User types form an open set; only this value is privileged.
const UserTypeAdmin = "admin"

// User represents a registered affiliate account.
type User struct {
	ID           string
	Email        string
	UserType     string
	PasswordHash []byte
	CreatedAt    time.Time
}
