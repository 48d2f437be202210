package auth_test

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	auth "github.com/SemiPerm/backend"
	repo "github.com/SemiPerm/backend/repository"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	sqliteCreateAccounts = `CREATE TABLE accounts (
    id TEXT NOT NULL PRIMARY KEY,
    social_id TEXT NOT NULL,
    social_type TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    profile_image_url TEXT,
    member_yn TEXT NOT NULL DEFAULT 'N',
    refresh_token TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT uq_accounts_social UNIQUE (social_id, social_type)
);`
	sqliteCreateMembers = `CREATE TABLE members (
    id TEXT NOT NULL PRIMARY KEY,
    account_id TEXT NOT NULL UNIQUE,
    nickname TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (account_id) REFERENCES accounts (id)
);`
)

func setupAuthDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateAccounts)
	require.NoError(t, err)
	_, err = bunDB.Exec(sqliteCreateMembers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	return bunDB
}

func TestAccountsGetOrCreateBySocial(t *testing.T) {
	db := setupAuthDB(t)
	accounts := auth.NewAccountsRepository(db)
	ctx := context.Background()

	t.Run("creates account on first login", func(t *testing.T) {
		record, created, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			SocialID:   "kakao-1",
			SocialType: auth.SocialTypeKakao,
			Email:      "one@example.com",
		})

		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, uuid.Nil, record.ID)
		assert.Equal(t, auth.FlagNo, record.MemberYn)
	})

	t.Run("returns existing account on repeat login", func(t *testing.T) {
		first, created, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			SocialID:   "kakao-2",
			SocialType: auth.SocialTypeKakao,
			Email:      "two@example.com",
		})
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			SocialID:   "kakao-2",
			SocialType: auth.SocialTypeKakao,
			Email:      "two@example.com",
		})

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("same social id under different providers stays separate", func(t *testing.T) {
		kakao, _, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			SocialID:   "shared-id",
			SocialType: auth.SocialTypeKakao,
		})
		require.NoError(t, err)

		naver, _, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			SocialID:   "shared-id",
			SocialType: auth.SocialTypeNaver,
		})
		require.NoError(t, err)

		assert.NotEqual(t, kakao.ID, naver.ID)
	})

	t.Run("caller supplied id never splits an existing pair", func(t *testing.T) {
		winner, _, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			SocialID:   "kakao-3",
			SocialType: auth.SocialTypeKakao,
		})
		require.NoError(t, err)

		record, created, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			ID:         uuid.New(),
			SocialID:   "kakao-3",
			SocialType: auth.SocialTypeKakao,
		})

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, winner.ID, record.ID)
	})
}

// accountConflictHook sneaks a competing account row in right before the
// repository's own insert runs, reproducing the window between the miss on
// the initial lookup and the insert of a first login.
type accountConflictHook struct {
	db     *bun.DB
	winner *auth.Account
	fired  atomic.Bool
	err    error
}

func (h *accountConflictHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	if strings.HasPrefix(event.Query, "INSERT") && strings.Contains(event.Query, `"accounts"`) {
		if h.fired.CompareAndSwap(false, true) {
			_, h.err = h.db.NewInsert().Model(h.winner).Exec(ctx)
		}
	}
	return ctx
}

func (h *accountConflictHook) AfterQuery(context.Context, *bun.QueryEvent) {}

func TestAccountsConcurrentResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("losing the insert race observes the winner row", func(t *testing.T) {
		db := setupAuthDB(t)
		accounts := auth.NewAccountsRepository(db)

		winner := &auth.Account{
			ID:         uuid.New(),
			SocialID:   "kakao-race",
			SocialType: auth.SocialTypeKakao,
			Email:      "winner@example.com",
			MemberYn:   auth.FlagNo,
		}
		hook := &accountConflictHook{db: db, winner: winner}
		db.AddQueryHook(hook)

		record, created, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
			SocialID:   "kakao-race",
			SocialType: auth.SocialTypeKakao,
			Email:      "loser@example.com",
		})

		require.NoError(t, err)
		require.NoError(t, hook.err)
		require.True(t, hook.fired.Load())
		assert.False(t, created)
		assert.Equal(t, winner.ID, record.ID)
		assert.Equal(t, "winner@example.com", record.Email)

		count, err := db.NewSelect().Model((*auth.Account)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("concurrent first logins persist exactly one account", func(t *testing.T) {
		db := setupAuthDB(t)
		accounts := auth.NewAccountsRepository(db)

		type outcome struct {
			record  *auth.Account
			created bool
			err     error
		}

		const logins = 4
		results := make(chan outcome, logins)

		var wg sync.WaitGroup
		for i := 0; i < logins; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				record, created, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
					SocialID:   "naver-race",
					SocialType: auth.SocialTypeNaver,
					Email:      "race@example.com",
				})
				results <- outcome{record: record, created: created, err: err}
			}()
		}
		wg.Wait()
		close(results)

		createdCount := 0
		ids := map[uuid.UUID]struct{}{}
		for res := range results {
			require.NoError(t, res.err)
			if res.created {
				createdCount++
			}
			ids[res.record.ID] = struct{}{}
		}
		assert.Equal(t, 1, createdCount)
		assert.Len(t, ids, 1)

		count, err := db.NewSelect().Model((*auth.Account)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestAccountsGetBySocial(t *testing.T) {
	db := setupAuthDB(t)
	accounts := auth.NewAccountsRepository(db)
	ctx := context.Background()

	_, _, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
		SocialID:   "naver-1",
		SocialType: auth.SocialTypeNaver,
		Email:      "naver@example.com",
	})
	require.NoError(t, err)

	t.Run("finds by social pair", func(t *testing.T) {
		record, err := accounts.GetBySocial(ctx, auth.SocialTypeNaver, "naver-1")

		require.NoError(t, err)
		assert.Equal(t, "naver@example.com", record.Email)
	})

	t.Run("miss reports record not found", func(t *testing.T) {
		_, err := accounts.GetBySocial(ctx, auth.SocialTypeNaver, "nope")

		assert.True(t, repository.IsRecordNotFound(err))
	})
}

func TestAccountsUpdateRefreshToken(t *testing.T) {
	db := setupAuthDB(t)
	accounts := auth.NewAccountsRepository(db)
	ctx := context.Background()

	record, _, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
		SocialID:   "kakao-9",
		SocialType: auth.SocialTypeKakao,
	})
	require.NoError(t, err)

	err = accounts.UpdateRefreshTokenTx(ctx, db, record.ID, "refresh-abc")
	require.NoError(t, err)

	reloaded, err := accounts.GetBySocial(ctx, auth.SocialTypeKakao, "kakao-9")
	require.NoError(t, err)
	assert.Equal(t, "refresh-abc", reloaded.RefreshToken)
}

func TestAccountsMarkAsMember(t *testing.T) {
	db := setupAuthDB(t)
	accounts := auth.NewAccountsRepository(db)
	ctx := context.Background()

	record, _, err := accounts.GetOrCreateBySocialTx(ctx, db, &auth.Account{
		SocialID:   "kakao-10",
		SocialType: auth.SocialTypeKakao,
	})
	require.NoError(t, err)
	require.False(t, record.IsMember())

	err = accounts.MarkAsMemberTx(ctx, db, record.ID)
	require.NoError(t, err)

	reloaded, err := accounts.GetBySocial(ctx, auth.SocialTypeKakao, "kakao-10")
	require.NoError(t, err)
	assert.True(t, reloaded.IsMember())
}

func TestRegisterMemberHandler(t *testing.T) {
	db := setupAuthDB(t)
	manager := repo.NewRepositoryManager(db)
	ctx := context.Background()

	account, _, err := manager.Accounts().GetOrCreateBySocialTx(ctx, db, &auth.Account{
		SocialID:   "kakao-20",
		SocialType: auth.SocialTypeKakao,
	})
	require.NoError(t, err)

	handler := auth.NewRegisterMemberHandler(manager)

	t.Run("creates member and flips account flag", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterMemberMessage{
			AccountID: account.ID.String(),
			Nickname:  "tester",
			UseHashid: true,
		})
		require.NoError(t, err)

		member, err := manager.Members().GetByAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "tester", member.Nickname)

		reloaded, err := manager.Accounts().GetBySocial(ctx, auth.SocialTypeKakao, "kakao-20")
		require.NoError(t, err)
		assert.True(t, reloaded.IsMember())
	})

	t.Run("rejects repeated registration", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterMemberMessage{
			AccountID: account.ID.String(),
			Nickname:  "tester",
		})
		assert.Error(t, err)
	})

	t.Run("rejects unknown account", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterMemberMessage{
			AccountID: uuid.New().String(),
			Nickname:  "ghost",
		})
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("rejects invalid account id", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterMemberMessage{
			AccountID: "not-a-uuid",
			Nickname:  "ghost",
		})
		assert.Error(t, err)
	})
}
