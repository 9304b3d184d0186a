package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform-wide roles. Officers administer challenges and the freeze switch.
const (
	RoleMember  = "member"
	RoleOfficer = "officer"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsOfficer() bool {
	return u.Role == RoleOfficer
}
