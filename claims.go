package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind tags the purpose of an issued token.
type TokenKind string

const (
	// TokenKindAccess is the short-lived token presented on API calls.
	TokenKindAccess TokenKind = "access_token"
	// TokenKindRefresh is the long-lived token used to mint new pairs
	// without re-authenticating against the social provider.
	TokenKindRefresh TokenKind = "refresh_token"
)

// AuthClaims represents the validated claim set of an issued token.
type AuthClaims interface {
	MemberID() string
	AccountID() string
	Kind() TokenKind
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	Member  string `json:"memberId"`
	Account string `json:"accountId"`
	Use     string `json:"use,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// MemberID returns the member identifier claim.
func (c *JWTClaims) MemberID() string {
	return c.Member
}

// AccountID returns the account identifier claim.
func (c *JWTClaims) AccountID() string {
	return c.Account
}

// Kind returns the purpose tag the token was issued with.
func (c *JWTClaims) Kind() TokenKind {
	return TokenKind(c.Use)
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

// TokenPair is the access/refresh pair minted on login. Both tokens carry
// identical (memberId, accountId) claims; only the expiration and purpose
// tag differ.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
