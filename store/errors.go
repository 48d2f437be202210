package store

import "github.com/goliatone/go-errors"

const (
	TextCodeZzimExists    = "ENTITY_ALREADY_EXISTS"
	TextCodeStoreNotFound = "NOT_FOUND_STORE"
	TextCodeZzimNotFound  = "NOT_FOUND_ZZIM"
)

// ErrZzimAlreadyExists is returned when a member bookmarks a store twice.
var ErrZzimAlreadyExists = errors.New("zzim already exists", errors.CategoryConflict).
	WithTextCode(TextCodeZzimExists).
	WithCode(errors.CodeConflict)

// ErrStoreNotFound is returned when a store id resolves to nothing.
var ErrStoreNotFound = errors.New("store not found", errors.CategoryNotFound).
	WithTextCode(TextCodeStoreNotFound).
	WithCode(errors.CodeNotFound)

// ErrZzimNotFound is returned when deleting a bookmark the member never made.
var ErrZzimNotFound = errors.New("zzim not found", errors.CategoryNotFound).
	WithTextCode(TextCodeZzimNotFound).
	WithCode(errors.CodeNotFound)
