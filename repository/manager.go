package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	auth "github.com/SemiPerm/backend"
	"github.com/uptrace/bun"
)

type mngr struct {
	db       *bun.DB
	accounts auth.Accounts
	members  auth.Members
}

func NewRepositoryManager(db *bun.DB) auth.RepositoryManager {
	return &mngr{
		db:       db,
		accounts: auth.NewAccountsRepository(db),
		members:  auth.NewMembersRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.members == nil {
		return errors.New("repository members should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() auth.Accounts {
	return m.accounts
}

func (m mngr) Members() auth.Members {
	return m.members
}
