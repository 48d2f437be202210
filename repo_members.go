package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Members is the persistence surface for Member records.
type Members interface {
	repository.Repository[*Member]

	GetByAccount(ctx context.Context, accountID uuid.UUID, criteria ...repository.SelectCriteria) (*Member, error)
	GetByAccountTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, criteria ...repository.SelectCriteria) (*Member, error)
}

type members struct {
	repository.Repository[*Member]
	db *bun.DB
}

var (
	_ Members                        = (*members)(nil)
	_ repository.Repository[*Member] = (*members)(nil)
)

// NewMembersRepository creates the bun backed Members repository.
func NewMembersRepository(db *bun.DB) Members {
	repo := repository.NewRepository[*Member](db, repository.ModelHandlers[*Member]{
		NewRecord: func() *Member { return &Member{} },
		GetID: func(m *Member) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *Member, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &members{
		Repository: repo,
		db:         db,
	}
}

func (r *members) GetByAccount(ctx context.Context, accountID uuid.UUID, criteria ...repository.SelectCriteria) (*Member, error) {
	return r.GetByAccountTx(ctx, r.db, accountID, criteria...)
}

func (r *members) GetByAccountTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, criteria ...repository.SelectCriteria) (*Member, error) {
	record := &Member{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.account_id = ?", accountID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"account_id": accountID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}
