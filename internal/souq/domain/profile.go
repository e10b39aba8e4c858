package domain

type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// UserProfile is the signed-in principal as returned by GET /accounts/profile/.
// It is replaced wholesale on every fetch and persisted as JSON, so unknown
// fields are ignored and missing ones stay zero.
type UserProfile struct {
	ID          string  `json:"id"`
	PhoneNumber string  `json:"phone_number"`
	Email       *string `json:"email,omitempty"`
	FullName    string  `json:"full_name"`
	Avatar      *string `json:"avatar,omitempty"`
	Role        Role    `json:"role"`
	Status      string  `json:"status,omitempty"`
	IsVerified  bool    `json:"is_verified"`
}

// DisplayName falls back to the phone number when the full name is empty.
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.PhoneNumber
}
