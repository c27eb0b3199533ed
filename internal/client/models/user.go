package models

// User roles and statuses as defined by the auth service.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// UserProfile describes the authenticated user. Role and Status may be
// absent in partial payloads; readers should go through RoleOrDefault and
// StatusOrDefault instead of touching the raw fields.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
}

// RoleOrDefault returns the profile role, falling back to "user".
func (p UserProfile) RoleOrDefault() string {
	if p.Role == "" {
		return RoleUser
	}
	return p.Role
}

// StatusOrDefault returns the profile status, falling back to "active".
func (p UserProfile) StatusOrDefault() string {
	if p.Status == "" {
		return StatusActive
	}
	return p.Status
}

// Merge overlays the non-zero fields of patch onto p and returns the result.
// This is the shallow merge used for partial profile updates; a full
// replacement happens only on login.
func (p UserProfile) Merge(patch UserProfile) UserProfile {
	out := p
	if patch.ID != 0 {
		out.ID = patch.ID
	}
	if patch.Username != "" {
		out.Username = patch.Username
	}
	if patch.Role != "" {
		out.Role = patch.Role
	}
	if patch.Status != "" {
		out.Status = patch.Status
	}
	return out
}
