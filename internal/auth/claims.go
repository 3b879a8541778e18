package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set carried by both token classes. Access
// tokens minted at registration carry the profile claims; tokens minted
// at login and refresh carry only the user id. Refresh tokens carry the
// user id alone. The verified claim set doubles as the request
// Principal.
type AccessClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserID returns the user identifier, preferring the id claim and
// falling back to the registered subject.
func (c *AccessClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time, zero if unset.
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
