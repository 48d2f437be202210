package social

import (
	"context"
	"fmt"
	"time"

	auth "github.com/SemiPerm/backend"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// LoginStatus is the terminal outcome of a social login attempt.
type LoginStatus string

const (
	// StatusLoginSuccess means the caller is a registered member and received
	// a fresh token pair.
	StatusLoginSuccess LoginStatus = "LOGIN_SUCCESS"
	// StatusOnboardingRequired means an account exists (possibly created just
	// now) but member registration has not happened yet. No tokens are issued.
	StatusOnboardingRequired LoginStatus = "ONBOARDING_REQUIRED"
)

// LoginResult is what a login attempt produced. Tokens is set only for
// StatusLoginSuccess; AccountID is always set so onboarding can continue.
type LoginResult struct {
	Status       LoginStatus     `json:"status"`
	AccountID    string          `json:"account_id"`
	MemberID     string          `json:"member_id,omitempty"`
	Tokens       *auth.TokenPair `json:"tokens,omitempty"`
	IsNewAccount bool            `json:"is_new_account"`
	Provider     string          `json:"provider"`
}

// Authenticator orchestrates the social login flow: fetch the provider
// profile, resolve the account, and either mint tokens for members or report
// that onboarding is still pending. All persistence effects of one login run
// in a single transaction.
type Authenticator struct {
	registry     *Registry
	resolver     *AccountResolver
	repo         auth.RepositoryManager
	tokenService auth.TokenService
	activitySink auth.ActivitySink
	logger       auth.Logger
}

// AuthenticatorOption configures the authenticator.
type AuthenticatorOption func(*Authenticator)

// NewAuthenticator creates the login orchestrator.
func NewAuthenticator(
	repo auth.RepositoryManager,
	tokenService auth.TokenService,
	opts ...AuthenticatorOption,
) *Authenticator {
	a := &Authenticator{
		registry:     NewRegistry(),
		repo:         repo,
		tokenService: tokenService,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.resolver == nil {
		a.resolver = NewAccountResolver(repo)
	}
	a.activitySink = auth.NormalizeActivitySink(a.activitySink)
	if a.logger == nil {
		a.logger = auth.DefaultLogger()
	}

	return a
}

// WithProvider registers a social provider.
func WithProvider(provider Provider) AuthenticatorOption {
	return func(a *Authenticator) {
		a.registry.Register(provider)
	}
}

// WithAccountResolver sets a custom account resolver.
func WithAccountResolver(resolver *AccountResolver) AuthenticatorOption {
	return func(a *Authenticator) {
		a.resolver = resolver
	}
}

// WithActivitySink sets the activity sink for audit logging.
func WithActivitySink(sink auth.ActivitySink) AuthenticatorOption {
	return func(a *Authenticator) {
		a.activitySink = sink
	}
}

// WithLogger sets the logger.
func WithLogger(logger auth.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

// Providers returns the names of the registered providers.
func (a *Authenticator) Providers() []string {
	return a.registry.Names()
}

// Login runs the full social login flow for providerName using an access
// token the client already obtained from the provider.
func (a *Authenticator) Login(ctx context.Context, providerName, accessToken string) (*LoginResult, error) {
	provider, err := a.registry.Get(providerName)
	if err != nil {
		return nil, err
	}

	profile, err := provider.UserInfo(ctx, accessToken)
	if err != nil {
		a.logger.Error("social login user info fetch failed", "provider", providerName, "error", err)
		a.record(ctx, auth.ActivityEvent{
			EventType:  auth.ActivityEventLoginFailure,
			Actor:      auth.ActorRef{Type: "social", ID: providerName},
			OccurredAt: time.Now(),
			Metadata:   map[string]any{"provider": providerName},
		})
		return nil, err
	}

	var result *LoginResult

	err = a.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, created, err := a.resolver.ResolveTx(ctx, tx, profile)
		if err != nil {
			return err
		}

		result, err = a.completeLoginTx(ctx, tx, provider, account, created)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.recordLogin(ctx, provider, result)

	return result, nil
}

// completeLoginTx picks the terminal outcome for a resolved account. A brand
// new account and an existing non-member account both end in onboarding; only
// a member account gets tokens, with its stored refresh token replaced.
func (a *Authenticator) completeLoginTx(ctx context.Context, tx bun.IDB, provider Provider, account *auth.Account, created bool) (*LoginResult, error) {
	result := &LoginResult{
		AccountID:    account.ID.String(),
		IsNewAccount: created,
		Provider:     provider.Name(),
	}

	if !account.IsMember() {
		result.Status = StatusOnboardingRequired
		return result, nil
	}

	member, err := a.repo.Members().GetByAccountTx(ctx, tx, account.ID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// member_yn says member but no member row exists, the data is
			// inconsistent and the login must not limp along
			a.logger.Error("account flagged as member has no member record", "account_id", account.ID.String())
			return nil, auth.ErrMemberNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not load member")
	}

	tokens, err := a.tokenService.IssueTokenPair(member.ID.String(), account.ID.String())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not issue token pair")
	}

	account.Login(tokens.RefreshToken)
	if err := a.repo.Accounts().UpdateRefreshTokenTx(ctx, tx, account.ID, tokens.RefreshToken); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not store refresh token")
	}

	result.Status = StatusLoginSuccess
	result.MemberID = member.ID.String()
	result.Tokens = tokens

	return result, nil
}

// Reissue exchanges a valid refresh token for a fresh token pair. The token
// must both verify and match the refresh token stored for the account; a
// mismatch means a newer login already rotated it.
func (a *Authenticator) Reissue(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := a.tokenService.Validate(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Kind() != auth.TokenKindRefresh {
		return nil, fmt.Errorf("%w: access token used for reissue", auth.ErrTokenInvalid)
	}

	var tokens *auth.TokenPair

	err = a.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := a.repo.Accounts().GetByIDTx(ctx, tx, claims.AccountID())
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return auth.ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not load account")
		}

		if account.RefreshToken != refreshToken {
			a.record(ctx, auth.ActivityEvent{
				EventType:  auth.ActivityEventTokenReissueDenied,
				AccountID:  account.ID.String(),
				OccurredAt: time.Now(),
			})
			return ErrRefreshTokenMismatch
		}

		tokens, err = a.tokenService.IssueTokenPair(claims.MemberID(), claims.AccountID())
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not issue token pair")
		}

		return a.repo.Accounts().UpdateRefreshTokenTx(ctx, tx, account.ID, tokens.RefreshToken)
	})
	if err != nil {
		return nil, err
	}

	a.record(ctx, auth.ActivityEvent{
		EventType:  auth.ActivityEventTokenReissued,
		AccountID:  claims.AccountID(),
		MemberID:   claims.MemberID(),
		OccurredAt: time.Now(),
	})

	return tokens, nil
}

func (a *Authenticator) recordLogin(ctx context.Context, provider Provider, result *LoginResult) {
	event := auth.ActivityEvent{
		EventType:  auth.ActivityEventLoginSuccess,
		AccountID:  result.AccountID,
		MemberID:   result.MemberID,
		Actor:      auth.ActorRef{Type: "social", ID: provider.Name()},
		OccurredAt: time.Now(),
		Metadata: map[string]any{
			"provider":       provider.Name(),
			"status":         string(result.Status),
			"is_new_account": result.IsNewAccount,
		},
	}
	if result.IsNewAccount {
		event.EventType = auth.ActivityEventAccountCreated
	}

	a.record(ctx, event)
}

func (a *Authenticator) record(ctx context.Context, event auth.ActivityEvent) {
	_ = a.activitySink.Record(ctx, event)
}
