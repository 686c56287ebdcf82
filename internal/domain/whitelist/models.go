package whitelist

import "time"

// Role of a whitelisted household member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Entry is one row of the role-assignment store.
type Entry struct {
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
