package social

import "github.com/goliatone/go-errors"

const (
	TextCodeProviderNotFound     = "social_provider_not_found"
	TextCodeProviderUnavailable  = "social_provider_unavailable"
	TextCodeProviderBadResponse  = "social_provider_bad_response"
	TextCodeRefreshTokenMismatch = "social_refresh_token_mismatch"
)

// ErrProviderNotFound is returned when a requested provider is not configured.
var ErrProviderNotFound = errors.New("social provider not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderNotFound).
	WithCode(errors.CodeNotFound)

// ErrProviderUnavailable is returned when the provider could not be reached or
// answered with an empty or error response.
var ErrProviderUnavailable = errors.New("social provider unavailable", errors.CategoryOperation).
	WithTextCode(TextCodeProviderUnavailable).
	WithCode(errors.CodeInternal)

// ErrProviderResponseMalformed is returned when the provider answered but the
// payload was missing required identity fields or could not be decoded.
var ErrProviderResponseMalformed = errors.New("social provider response malformed", errors.CategoryOperation).
	WithTextCode(TextCodeProviderBadResponse).
	WithCode(errors.CodeInternal)

// ErrRefreshTokenMismatch is returned on reissue when the presented refresh
// token is valid but no longer the one stored for the account.
var ErrRefreshTokenMismatch = errors.New("refresh token does not match stored token", errors.CategoryAuth).
	WithTextCode(TextCodeRefreshTokenMismatch).
	WithCode(errors.CodeUnauthorized)
