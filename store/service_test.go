package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/SemiPerm/backend/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	createStoresSQL = `CREATE TABLE stores (
    id TEXT NOT NULL PRIMARY KEY,
    place_id TEXT NOT NULL UNIQUE,
    name TEXT,
    address TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	createZzimsSQL = `CREATE TABLE member_zzim_stores (
    id TEXT NOT NULL PRIMARY KEY,
    member_id TEXT NOT NULL,
    store_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT uq_zzim_member_store UNIQUE (member_id, store_id)
);`
)

func setupStoreDB(t *testing.T) (*store.Repository, *store.Service) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec(createStoresSQL)
	require.NoError(t, err)
	_, err = db.Exec(createZzimsSQL)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	repo := store.NewRepository(db)
	return repo, store.NewService(repo, nil)
}

func TestPlaceIDEncoding(t *testing.T) {
	raw := "place/123+456?ref=map"

	encoded := store.EncodePlaceID(raw)
	assert.NotEqual(t, raw, encoded)

	decoded, err := store.DecodePlaceID(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	_, err = store.DecodePlaceID("!!!not-base64!!!")
	assert.Error(t, err)
}

func TestServiceAddZzim(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New()

	t.Run("creates the store and the bookmark", func(t *testing.T) {
		_, service := setupStoreDB(t)

		zzim, err := service.AddZzim(ctx, memberID, store.AddZzimInput{
			PlaceID: "place-1",
			Name:    "Cafe One",
			Address: "1 Main St",
		})

		require.NoError(t, err)
		assert.Equal(t, memberID, zzim.MemberID)
		require.NotNil(t, zzim.Store)
		assert.Equal(t, store.EncodePlaceID("place-1"), zzim.Store.PlaceID)
		assert.Equal(t, "Cafe One", zzim.Store.Name)
	})

	t.Run("reuses the store record for a second member", func(t *testing.T) {
		_, service := setupStoreDB(t)

		first, err := service.AddZzim(ctx, memberID, store.AddZzimInput{PlaceID: "place-1", Name: "Cafe One"})
		require.NoError(t, err)

		second, err := service.AddZzim(ctx, uuid.New(), store.AddZzimInput{PlaceID: "place-1", Name: "Cafe One"})
		require.NoError(t, err)

		assert.Equal(t, first.StoreID, second.StoreID)
	})

	t.Run("rejects a duplicate bookmark", func(t *testing.T) {
		_, service := setupStoreDB(t)

		_, err := service.AddZzim(ctx, memberID, store.AddZzimInput{PlaceID: "place-1", Name: "Cafe One"})
		require.NoError(t, err)

		_, err = service.AddZzim(ctx, memberID, store.AddZzimInput{PlaceID: "place-1", Name: "Cafe One"})

		assert.ErrorIs(t, err, store.ErrZzimAlreadyExists)
	})

	t.Run("rejects an empty place id", func(t *testing.T) {
		_, service := setupStoreDB(t)

		_, err := service.AddZzim(ctx, memberID, store.AddZzimInput{})

		assert.Error(t, err)
	})
}

func TestServiceRemoveZzim(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New()

	t.Run("removes an existing bookmark", func(t *testing.T) {
		_, service := setupStoreDB(t)

		zzim, err := service.AddZzim(ctx, memberID, store.AddZzimInput{PlaceID: "place-1"})
		require.NoError(t, err)

		err = service.RemoveZzim(ctx, memberID, zzim.StoreID)
		require.NoError(t, err)

		err = service.RemoveZzim(ctx, memberID, zzim.StoreID)
		assert.ErrorIs(t, err, store.ErrZzimNotFound)
	})

	t.Run("does not remove another member's bookmark", func(t *testing.T) {
		_, service := setupStoreDB(t)

		zzim, err := service.AddZzim(ctx, memberID, store.AddZzimInput{PlaceID: "place-1"})
		require.NoError(t, err)

		err = service.RemoveZzim(ctx, uuid.New(), zzim.StoreID)
		assert.ErrorIs(t, err, store.ErrZzimNotFound)

		page, err := service.ListZzims(ctx, memberID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})
}

func TestServiceListZzims(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New()

	t.Run("pages bookmarks newest first", func(t *testing.T) {
		repo, service := setupStoreDB(t)

		base := time.Now().Add(-time.Hour)
		var storeIDs []uuid.UUID
		for i := 0; i < 3; i++ {
			record, err := repo.GetOrCreateStore(ctx, &store.Store{
				PlaceID: store.EncodePlaceID("place-" + string(rune('a'+i))),
			})
			require.NoError(t, err)
			storeIDs = append(storeIDs, record.ID)

			createdAt := base.Add(time.Duration(i) * time.Minute)
			_, err = repo.CreateZzim(ctx, &store.Zzim{
				MemberID:  memberID,
				StoreID:   record.ID,
				CreatedAt: &createdAt,
			})
			require.NoError(t, err)
		}

		page, err := service.ListZzims(ctx, memberID, 2, 0)

		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, storeIDs[2], page.Items[0].StoreID)
		assert.Equal(t, storeIDs[1], page.Items[1].StoreID)
		require.NotNil(t, page.Items[0].Store)

		next, err := service.ListZzims(ctx, memberID, 2, 2)
		require.NoError(t, err)
		require.Len(t, next.Items, 1)
		assert.Equal(t, storeIDs[0], next.Items[0].StoreID)
	})

	t.Run("clamps an out of range limit", func(t *testing.T) {
		_, service := setupStoreDB(t)

		page, err := service.ListZzims(ctx, memberID, -5, -1)

		require.NoError(t, err)
		assert.Equal(t, 20, page.Limit)
		assert.Equal(t, 0, page.Offset)
		assert.Empty(t, page.Items)
	})

	t.Run("only lists the member's own bookmarks", func(t *testing.T) {
		_, service := setupStoreDB(t)

		_, err := service.AddZzim(ctx, memberID, store.AddZzimInput{PlaceID: "mine"})
		require.NoError(t, err)
		_, err = service.AddZzim(ctx, uuid.New(), store.AddZzimInput{PlaceID: "theirs"})
		require.NoError(t, err)

		page, err := service.ListZzims(ctx, memberID, 10, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, store.EncodePlaceID("mine"), page.Items[0].Store.PlaceID)
	})
}
