package store

import (
	"context"

	auth "github.com/SemiPerm/backend"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Service implements the bookmark ("zzim") operations on top of the
// repository. Callers are identified by member id, which handlers take from
// the authenticated request context.
type Service struct {
	repo   *Repository
	logger auth.Logger
}

// NewService creates a new store service.
func NewService(repo *Repository, logger auth.Logger) *Service {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// AddZzimInput identifies the place to bookmark. PlaceID is the raw upstream
// identifier; the service encodes it before storage.
type AddZzimInput struct {
	PlaceID string
	Name    string
	Address string
}

// AddZzim bookmarks a store for the member, creating the store record on
// first sight. Bookmarking the same store twice fails with
// ErrZzimAlreadyExists.
func (s *Service) AddZzim(ctx context.Context, memberID uuid.UUID, input AddZzimInput) (*Zzim, error) {
	if input.PlaceID == "" {
		return nil, goerrors.New("place id is required", goerrors.CategoryBadInput)
	}

	record, err := s.repo.GetOrCreateStore(ctx, &Store{
		PlaceID: EncodePlaceID(input.PlaceID),
		Name:    input.Name,
		Address: input.Address,
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not resolve store")
	}

	if _, err := s.repo.FindZzim(ctx, memberID, record.ID); err == nil {
		return nil, ErrZzimAlreadyExists
	} else if !goerrors.Is(err, ErrZzimNotFound) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not check existing zzim")
	}

	zzim, err := s.repo.CreateZzim(ctx, &Zzim{
		MemberID: memberID,
		StoreID:  record.ID,
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create zzim")
	}

	zzim.Store = record
	return zzim, nil
}

// RemoveZzim deletes the member's bookmark of a store.
func (s *Service) RemoveZzim(ctx context.Context, memberID, storeID uuid.UUID) error {
	deleted, err := s.repo.DeleteZzim(ctx, memberID, storeID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete zzim")
	}
	if !deleted {
		return ErrZzimNotFound
	}
	return nil
}

// ZzimPage is one page of a member's bookmarks, newest first.
type ZzimPage struct {
	Items  []*Zzim `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// ListZzims returns a page of the member's bookmarks, newest first.
func (s *Service) ListZzims(ctx context.Context, memberID uuid.UUID, limit, offset int) (*ZzimPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.ListZzims(ctx, memberID, limit, offset)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not list zzims")
	}

	return &ZzimPage{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}
