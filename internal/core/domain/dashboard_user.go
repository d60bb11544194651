package domain

import "time"

// Capability is a single permission held by a dashboard user.
type Capability string

// CapabilityReviewIncidents lets a user list, inspect and decide on incidents.
// Every active dashboard user holds it.
const CapabilityReviewIncidents Capability = "review_incidents"

// DashboardUser is an authenticated staff account.
type DashboardUser struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Capabilities returns the permissions the user currently holds.
// Inactive users hold none.
func (u *DashboardUser) Capabilities() []Capability {
	if u == nil || !u.IsActive {
		return nil
	}
	return []Capability{CapabilityReviewIncidents}
}

// Can reports whether the user holds capability c.
func (u *DashboardUser) Can(c Capability) bool {
	for _, held := range u.Capabilities() {
		if held == c {
			return true
		}
	}
	return false
}
