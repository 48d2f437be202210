package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists stores and member bookmarks with plain bun queries.
type Repository struct {
	db *bun.DB
}

// NewRepository creates a new repository.
func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateStore resolves a store by its encoded place id, inserting it on
// first sight. Concurrent inserts resolve through the unique place_id index.
func (r *Repository) GetOrCreateStore(ctx context.Context, record *Store) (*Store, error) {
	existing := &Store{}
	err := r.db.NewSelect().
		Model(existing).
		Where("?TableAlias.place_id = ?", record.PlaceID).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err = r.db.NewInsert().
		Model(record).
		On("CONFLICT (place_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("address = EXCLUDED.address").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetStore loads a store by id.
func (r *Repository) GetStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	record := &Store{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return record, nil
}

// FindZzim finds a member's bookmark of a store, if any.
func (r *Repository) FindZzim(ctx context.Context, memberID, storeID uuid.UUID) (*Zzim, error) {
	record := &Zzim{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.member_id = ?", memberID).
		Where("?TableAlias.store_id = ?", storeID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZzimNotFound
		}
		return nil, err
	}
	return record, nil
}

// CreateZzim inserts a bookmark.
func (r *Repository) CreateZzim(ctx context.Context, record *Zzim) (*Zzim, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}

	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteZzim removes a member's bookmark. Reports whether a row was deleted.
func (r *Repository) DeleteZzim(ctx context.Context, memberID, storeID uuid.UUID) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*Zzim)(nil)).
		Where("member_id = ?", memberID).
		Where("store_id = ?", storeID).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListZzims returns a member's bookmarks newest first, with the store loaded.
func (r *Repository) ListZzims(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Zzim, int, error) {
	var records []*Zzim

	total, err := r.db.NewSelect().
		Model((*Zzim)(nil)).
		Where("?TableAlias.member_id = ?", memberID).
		Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	q := r.db.NewSelect().
		Model(&records).
		Relation("Store").
		Where("?TableAlias.member_id = ?", memberID).
		Order("zzim.created_at DESC")

	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Zzim{}, total, nil
		}
		return nil, 0, err
	}

	return records, total, nil
}
