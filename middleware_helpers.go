package auth

import (
	"context"
	"encoding/base64"

	"github.com/SemiPerm/backend/middleware/jwtware"
	"github.com/goliatone/go-router"
)

// validatorAdapter bridges TokenService to the middleware's validator
// interface, which cannot import this package.
type validatorAdapter struct {
	ts TokenService
}

func (v validatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claimsAdapter{claims}, nil
}

type claimsAdapter struct {
	claims AuthClaims
}

func (a claimsAdapter) MemberID() string  { return a.claims.MemberID() }
func (a claimsAdapter) AccountID() string { return a.claims.AccountID() }
func (a claimsAdapter) Kind() string      { return string(a.claims.Kind()) }

// ProtectedRoute builds the JWT middleware guarding API routes. Validated
// requests get the caller's principal injected into the request context, so
// handlers downstream can use MemberIDFromContext.
func ProtectedRoute(cfg Config, ts TokenService, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	key, err := base64.StdEncoding.DecodeString(cfg.GetSigningKey())
	if err != nil {
		// NewTokenService already rejected bad keys, a failure here means
		// the middleware got a different config than the service
		panic("AUTH: JWT middleware configuration: signing key is not valid base64")
	}

	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: cfg.GetSigningMethod(),
			Key:    key,
		},
		ContextKey:       cfg.GetContextKey(),
		TokenLookup:      cfg.GetTokenLookup(),
		AuthScheme:       cfg.GetAuthScheme(),
		TokenValidator:   validatorAdapter{ts: ts},
		RefreshTokenKind: string(TokenKindRefresh),
		ErrorHandler:     errorHandler,
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			return WithAuthContext(ctx, claims.MemberID(), claims.AccountID())
		},
	})
}
