package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the catalog permission carried by an access token.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleShopManager Role = "shop_manager"
)

// IsValid reports whether the role is known.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleShopManager:
		return true
	}
	return false
}

// String returns the wire value.
func (r Role) String() string {
	return string(r)
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to catalog editors.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}
