package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a bearer token. The subject carries the
// user id; UserID is filled in once the token has been validated.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email  string    `json:"email,omitempty"`
	UserID uuid.UUID `json:"-"`
}
