package domain

// Role names used by the backend.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is the profile record of a backend account.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	Enabled        bool   `json:"enabled"`
	Address        string `json:"address,omitempty"`
	MSISDN         string `json:"msisdn,omitempty"`
	Category       string `json:"category,omitempty"`
	ContactDetails string `json:"contactDetails,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// UserRequest is the create/update payload for users. Password is omitted on
// update when empty.
type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}
