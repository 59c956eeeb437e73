package models

import (
	"strings"
	"time"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller resolved from a session token.
// It is passed explicitly through request handling rather than held globally.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanManage reports whether the identity may modify a record owned by ownerID.
func (i Identity) CanManage(ownerID string) bool {
	return i.IsAdmin() || (i.ID != "" && i.ID == ownerID)
}

// Profile is a stored account row.
type Profile struct {
	CreatedAt    time.Time `json:"createdAt"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	Name         *string   `json:"name,omitempty"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
}

// DisplayName returns the profile name, falling back to the email local part.
func (p Profile) DisplayName() string {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		return *p.Name
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}
