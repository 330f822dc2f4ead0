package models

import "github.com/golang-jwt/jwt/v5"

// TutorRole describes the authenticated caller's role.
type TutorRole string

const (
	RoleTutor TutorRole = "tutor"
	RoleAdmin TutorRole = "admin"
)

// JWTClaims is the access-token payload issued by the identity provider. The
// claim merge consumes DisplayName read-only when the claim service omits the
// tutor field.
type JWTClaims struct {
	UserID      string    `json:"user_id"`
	Role        TutorRole `json:"role"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	jwt.RegisteredClaims
}
