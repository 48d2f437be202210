package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeTokenUnsupported = "TOKEN_UNSUPPORTED"
	TextCodeTokenInvalid     = "TOKEN_INVALID"
	TextCodeUnauthenticated  = "UNAUTHENTICATED"
	TextCodeMemberNotFound   = "NOT_FOUND_MEMBER"
	TextCodeAccountNotFound  = "NOT_FOUND_ACCOUNT"
)

// ErrTokenExpired is returned when a token is past its expiration claim.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token is structurally invalid.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenUnsupported is returned when a token header declares an algorithm
// other than the one this service signs with.
var ErrTokenUnsupported = errors.New("token algorithm is not supported", errors.CategoryAuth).
	WithTextCode(TextCodeTokenUnsupported).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid covers every remaining validation failure, signature
// mismatches included. Callers must treat it as "not authenticated".
var ErrTokenInvalid = errors.New("token is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned by the context accessors when no
// authenticated principal is present in the context.
var ErrUnauthenticated = errors.New("no authenticated principal in context", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrMemberNotFound signals an account flagged as member without a member
// record. That is a data consistency fault, not a user error: it should page
// someone rather than render a retry message.
var ErrMemberNotFound = errors.New("member record missing for member account", errors.CategoryInternal).
	WithTextCode(TextCodeMemberNotFound).
	WithCode(errors.CodeInternal)

// ErrAccountNotFound is returned when an account lookup by id misses.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
