package auth

import "context"

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// Principal is the authenticated identity of a request: the member id as
// principal and the account id as credential. It is set once at request entry
// (by the JWT middleware) and threaded explicitly; there is no process-wide
// "current user".
type Principal struct {
	MemberID  string
	AccountID string
}

// WithAuthContext sets the authenticated principal in the given context.
func WithAuthContext(ctx context.Context, memberID, accountID string) context.Context {
	return context.WithValue(ctx, principalCtxKey, Principal{
		MemberID:  memberID,
		AccountID: accountID,
	})
}

// PrincipalFromContext finds the authenticated principal in the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(Principal)
	return raw, ok
}

// MemberIDFromContext extracts the member id of the authenticated caller,
// failing with ErrUnauthenticated when no principal is present.
func MemberIDFromContext(ctx context.Context) (string, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.MemberID == "" {
		return "", ErrUnauthenticated
	}
	return p.MemberID, nil
}

// AccountIDFromContext extracts the account id of the authenticated caller,
// failing with ErrUnauthenticated when no principal is present.
func AccountIDFromContext(ctx context.Context) (string, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.AccountID == "" {
		return "", ErrUnauthenticated
	}
	return p.AccountID, nil
}
