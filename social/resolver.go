package social

import (
	"context"

	auth "github.com/SemiPerm/backend"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// AccountResolver maps a provider profile to the Account record it belongs
// to, creating the account on first login. Resolution is keyed strictly by
// the (social id, social type) pair; email is stored but never used for
// matching, so two providers reporting the same email stay separate accounts.
type AccountResolver struct {
	repo auth.RepositoryManager
}

// NewAccountResolver creates an AccountResolver backed by the given repositories.
func NewAccountResolver(repo auth.RepositoryManager) *AccountResolver {
	return &AccountResolver{repo: repo}
}

// ResolveTx finds or creates the account for profile inside tx. The boolean
// reports whether the account was created by this call.
func (r *AccountResolver) ResolveTx(ctx context.Context, tx bun.IDB, profile *Profile) (*auth.Account, bool, error) {
	if profile == nil || profile.SocialID == "" {
		return nil, false, goerrors.New("profile is missing social id", goerrors.CategoryBadInput)
	}
	if !profile.SocialType.IsValid() {
		return nil, false, goerrors.New("profile has unknown social type", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"social_type": string(profile.SocialType)})
	}

	account, created, err := r.repo.Accounts().GetOrCreateBySocialTx(ctx, tx, profile.ToAccount())
	if err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "could not resolve account")
	}

	return account, created, nil
}

// Resolve is the non-transactional variant used outside a login flow.
func (r *AccountResolver) Resolve(ctx context.Context, profile *Profile) (*auth.Account, bool, error) {
	if profile == nil || profile.SocialID == "" {
		return nil, false, goerrors.New("profile is missing social id", goerrors.CategoryBadInput)
	}

	var (
		account *auth.Account
		created bool
	)

	err := r.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		account, created, err = r.ResolveTx(ctx, tx, profile)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	return account, created, nil
}
