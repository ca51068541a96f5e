package domain

import "time"

// Privilege is a named, grantable capability from the catalog.
type Privilege struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PrivilegeGrant is one row of the relational grant store.
type PrivilegeGrant struct {
	UserID      string    `json:"user_id"`
	PrivilegeID string    `json:"privilege_id"`
	Name        string    `json:"name"`
	GrantedBy   string    `json:"granted_by,omitempty"`
	GrantedAt   time.Time `json:"granted_at"`
}

// Capability names used by the route gates. The catalog holds more; these
// are the ones the server checks itself.
const (
	PrivilegeAidRequest          = "aid_request"
	PrivilegeViewApplications    = "view_applications"
	PrivilegeManageApplications  = "manage_applications"
	PrivilegeApproveApplications = "approve_applications"
)

// UniqueNames returns names with duplicates and blanks removed, keeping the
// first occurrence order.
func UniqueNames(names ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range names {
		for _, n := range list {
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// ContainsName reports whether name is in list.
func ContainsName(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
