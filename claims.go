package userapi

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents structured JWT claims with role checking
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	RoleSet() []string
	HasRole(role string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// RoleClaims carries the role claim. Single-role tokens may encode it as a
// bare string instead of an array, so decoding accepts both shapes.
type RoleClaims []string

func (r RoleClaims) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(r))
}

func (r *RoleClaims) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*r = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}

	*r = RoleClaims{one}
	return nil
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID        string     `json:"uid,omitempty"`
	UniqueName string     `json:"unique_name,omitempty"`
	Name       string     `json:"name,omitempty"`
	Roles      RoleClaims `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Username returns the unique_name claim
func (c *JWTClaims) Username() string {
	if c.UniqueName != "" {
		return c.UniqueName
	}
	return c.Name
}

// RoleSet returns the role claims embedded at issuance time
func (c *JWTClaims) RoleSet() []string {
	return []string(c.Roles)
}

// HasRole checks if the token carries a specific role claim
func (c *JWTClaims) HasRole(role string) bool {
	for _, held := range c.Roles {
		if held == role {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Principal is the identity and role set recovered from a verified token,
// scoped to a single request. It is never persisted.
type Principal struct {
	ID       string   `json:"id,omitempty"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole checks if the principal holds a specific role
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, held := range p.Roles {
		if held == role {
			return true
		}
	}
	return false
}

// PrincipalFromClaims builds the request principal from validated claims
func PrincipalFromClaims(claims AuthClaims) (*Principal, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}

	return &Principal{
		ID:       claims.UserID(),
		Username: claims.Username(),
		Roles:    claims.RoleSet(),
	}, nil
}
