package auth

import "github.com/golang-jwt/jwt/v5"

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
}

// TokenPair is returned by every login variant and by refresh.
type TokenPair struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Policy is the role predicate a login endpoint applies after the
// credentials check.
type Policy int

const (
	PolicyAny Policy = iota
	PolicyAdminOnly
	PolicyNonAdminOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyAdminOnly:
		return "admin-only"
	case PolicyNonAdminOnly:
		return "non-admin-only"
	default:
		return "any"
	}
}
