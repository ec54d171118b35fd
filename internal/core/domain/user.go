package domain

import "errors"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")

var ErrTokenInvalid = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")

// Claims is the identity payload carried by an issued token.
type Claims struct {
	UserID   string
	Role     string
	ClientID string
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleStaff
}

// User models an authenticated actor. The password hash is never
// serialized to callers.
type User struct {
	ID                string   `json:"_id,omitempty"`
	FirstName         string   `json:"firstname"`
	LastName          string   `json:"lastname"`
	Role              string   `json:"role"`
	Email             string   `json:"email"`
	PasswordHash      string   `json:"-"`
	AssignedLocations []string `json:"assignedlocations"`
	AssignedZones     []string `json:"assignedzones"`
	ClientID          string   `json:"clientid,omitempty"`
}
