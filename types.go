package auth

import "fmt"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	// GetSigningKey returns the base64 encoded symmetric signing secret.
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	// GetAccessTokenValidity returns the access token lifetime in seconds.
	GetAccessTokenValidity() int
	// GetRefreshTokenValidity returns the refresh token lifetime in seconds.
	GetRefreshTokenValidity() int
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

// TokenService issues and validates the JWTs used by this backend. The claim
// set is always the minimal (memberId, accountId) pair; email and profile
// data never ride in a token.
type TokenService interface {
	Issue(memberID, accountID string, kind TokenKind) (string, error)
	IssueAccessToken(memberID, accountID string) (string, error)
	IssueRefreshToken(memberID, accountID string) (string, error)
	IssueTokenPair(memberID, accountID string) (*TokenPair, error)
	Validate(tokenString string) (AuthClaims, error)
	MemberIDFromToken(tokenString string) (string, error)
	AccountIDFromToken(tokenString string) (string, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenInvalid
	}
	return f(tokenString)
}

// DefaultLogger returns the fallback stdout logger used when callers do not
// provide their own.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
