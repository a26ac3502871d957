package domain

import "time"

const (
	RoleChef  = "chef"
	RoleAdmin = "admin"
)

// Staff is a kitchen or admin account. PasswordHash is a bcrypt hash.
type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
