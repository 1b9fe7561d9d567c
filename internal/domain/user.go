package domain

// Role names as configured in the helpdesk API.
type Role string

const (
	RoleUser       Role = "Utilisateur"
	RoleTechnician Role = "Technicien"
	RoleSecretary  Role = "Secrétaire DSI"
	RoleDeputy     Role = "Adjoint DSI"
	RoleDSI        Role = "DSI"
	RoleAdmin      Role = "Admin"
)

// IsStaff reports whether the role triages tickets from the secretary dashboard.
func (r Role) IsStaff() bool {
	switch r {
	case RoleSecretary, RoleDeputy, RoleDSI, RoleAdmin:
		return true
	}
	return false
}

// RoleRef is the role object embedded in user payloads.
type RoleRef struct {
	ID   string `json:"id,omitempty"`
	Name Role   `json:"name"`
}

// Viewer is the authenticated dashboard user as returned by /auth/me.
type Viewer struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Agency   string  `json:"agency,omitempty"`
	Role     RoleRef `json:"role"`
}

// RoleName returns the viewer role.
func (v Viewer) RoleName() Role {
	return v.Role.Name
}
