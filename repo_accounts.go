package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the persistence surface for Account records. The only lookup
// key besides the primary id is the unique (social_id, social_type) pair.
type Accounts interface {
	repository.Repository[*Account]

	GetBySocial(ctx context.Context, socialType SocialType, socialID string, criteria ...repository.SelectCriteria) (*Account, error)
	GetBySocialTx(ctx context.Context, tx bun.IDB, socialType SocialType, socialID string, criteria ...repository.SelectCriteria) (*Account, error)
	GetOrCreateBySocialTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, bool, error)
	UpdateRefreshTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, refreshToken string) error
	MarkAsMemberTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts                        = (*accounts)(nil)
	_ repository.Repository[*Account] = (*accounts)(nil)
)

// NewAccountsRepository creates the bun backed Accounts repository.
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (r *accounts) GetBySocial(ctx context.Context, socialType SocialType, socialID string, criteria ...repository.SelectCriteria) (*Account, error) {
	return r.GetBySocialTx(ctx, r.db, socialType, socialID, criteria...)
}

func (r *accounts) GetBySocialTx(ctx context.Context, tx bun.IDB, socialType SocialType, socialID string, criteria ...repository.SelectCriteria) (*Account, error) {
	record := &Account{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.social_id = ?", socialID).
		Where("?TableAlias.social_type = ?", socialType).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"social_id":   socialID,
					"social_type": socialType,
				})
		}
		return nil, err
	}

	return record, nil
}

// GetOrCreateBySocialTx resolves the account for record's (social_id,
// social_type) pair, creating it when no row exists. The storage layer
// enforces the uniqueness invariant, so a concurrent first login loses the
// insert race with a unique violation and falls back to reading the winner's
// row. The second return value reports whether a row was created.
func (r *accounts) GetOrCreateBySocialTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, bool, error) {
	existing, err := r.GetBySocialTx(ctx, tx, record.SocialType, record.SocialID)
	if err == nil {
		return existing, false, nil
	}
	if !repository.IsRecordNotFound(err) {
		return nil, false, err
	}

	if record.ID == uuid.Nil {
		// Deterministic id from the unique pair keeps racing creators from
		// even disagreeing about the primary key.
		if id, herr := hashid.NewUUID(fmt.Sprintf("%s:%s", record.SocialType, record.SocialID)); herr == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
	}
	if record.MemberYn == "" {
		record.MemberYn = FlagNo
	}

	created, err := r.CreateTx(ctx, tx, record)
	if err == nil {
		return created, true, nil
	}
	if !isUniqueViolation(err) {
		return nil, false, err
	}

	winner, err := r.GetBySocialTx(ctx, tx, record.SocialType, record.SocialID)
	if err != nil {
		return nil, false, err
	}
	return winner, false, nil
}

func (r *accounts) UpdateRefreshTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, refreshToken string) error {
	_, err := tx.NewUpdate().
		Model((*Account)(nil)).
		Set("refresh_token = ?", refreshToken).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *accounts) MarkAsMemberTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewUpdate().
		Model((*Account)(nil)).
		Set("member_yn = ?", FlagYes).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
