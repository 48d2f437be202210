package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
	issuer          string
	logger          Logger
}

// NewTokenService creates a new TokenService instance. The signing key is the
// base64 decoding of cfg.GetSigningKey(); the access and refresh validity
// windows come from the configuration in seconds, refresh strictly longer
// than access.
func NewTokenService(cfg Config, logger Logger) (TokenService, error) {
	if logger == nil {
		logger = defLogger{}
	}

	key, err := base64.StdEncoding.DecodeString(cfg.GetSigningKey())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "signing key is not valid base64")
	}
	if len(key) == 0 {
		return nil, errors.New("signing key must not be empty", errors.CategoryBadInput)
	}

	access := time.Duration(cfg.GetAccessTokenValidity()) * time.Second
	refresh := time.Duration(cfg.GetRefreshTokenValidity()) * time.Second
	if access <= 0 {
		return nil, errors.New("access token validity must be positive", errors.CategoryBadInput)
	}
	if refresh <= access {
		return nil, errors.New("refresh token validity must exceed access token validity", errors.CategoryBadInput)
	}

	return &TokenServiceImpl{
		signingKey:      key,
		accessValidity:  access,
		refreshValidity: refresh,
		issuer:          cfg.GetIssuer(),
		logger:          logger,
	}, nil
}

// Issue creates a signed token carrying the (memberId, accountId) claim pair
// and an absolute expiration computed from the validity window for kind.
func (ts *TokenServiceImpl) Issue(memberID, accountID string, kind TokenKind) (string, error) {
	if memberID == "" || accountID == "" {
		return "", errors.New("memberId and accountId are required", errors.CategoryBadInput)
	}

	validity := ts.accessValidity
	if kind == TokenKindRefresh {
		validity = ts.refreshValidity
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Member:  memberID,
		Account: accountID,
		Use:     string(kind),
	}

	return ts.SignClaims(claims)
}

// IssueAccessToken mints a short-lived API token.
func (ts *TokenServiceImpl) IssueAccessToken(memberID, accountID string) (string, error) {
	return ts.Issue(memberID, accountID, TokenKindAccess)
}

// IssueRefreshToken mints a long-lived reissue token.
func (ts *TokenServiceImpl) IssueRefreshToken(memberID, accountID string) (string, error) {
	return ts.Issue(memberID, accountID, TokenKindRefresh)
}

// IssueTokenPair mints an access and a refresh token in one call. Both carry
// the same identity claims with independently computed expirations.
func (ts *TokenServiceImpl) IssueTokenPair(memberID, accountID string) (*TokenPair, error) {
	access, err := ts.Issue(memberID, accountID, TokenKindAccess)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.Issue(memberID, accountID, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies a token string, returning structured claims.
// Failures collapse into the classified token errors; callers never see the
// underlying parser error text.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenInvalid
}

// MemberIDFromToken validates the token and returns its memberId claim.
func (ts *TokenServiceImpl) MemberIDFromToken(tokenString string) (string, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.MemberID(), nil
}

// AccountIDFromToken validates the token and returns its accountId claim.
func (ts *TokenServiceImpl) AccountIDFromToken(tokenString string) (string, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.AccountID(), nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// The keyfunc rejects non-HMAC algorithms; that surfaces here.
		return ErrTokenUnsupported
	default:
		return ErrTokenInvalid
	}
}
