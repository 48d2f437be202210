package store

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store is a place a member can bookmark. PlaceID is the base64 encoding of
// the upstream place identifier, which may contain characters unsafe for
// URLs and database keys.
type Store struct {
	bun.BaseModel `bun:"table:stores,alias:st"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	PlaceID       string     `bun:"place_id,notnull,unique" json:"place_id,omitempty"`
	Name          string     `bun:"name" json:"name,omitempty"`
	Address       string     `bun:"address" json:"address,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Zzim is a member's bookmark of a store. One row per (member, store) pair.
type Zzim struct {
	bun.BaseModel `bun:"table:member_zzim_stores,alias:zzim"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	MemberID      uuid.UUID  `bun:"member_id,notnull,type:uuid" json:"member_id,omitempty"`
	StoreID       uuid.UUID  `bun:"store_id,notnull,type:uuid" json:"store_id,omitempty"`
	Store         *Store     `bun:"rel:belongs-to,join:store_id=id" json:"store,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// EncodePlaceID converts a raw upstream place identifier into its stored form.
func EncodePlaceID(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodePlaceID recovers the raw upstream place identifier.
func DecodePlaceID(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
