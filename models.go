package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SocialType discriminates which identity provider an account came from.
type SocialType string

const (
	// SocialTypeKakao is the Kakao identity provider.
	SocialTypeKakao SocialType = "KAKAO"
	// SocialTypeNaver is the Naver identity provider.
	SocialTypeNaver SocialType = "NAVER"
)

// IsValid checks if the social type is one of the supported providers
func (s SocialType) IsValid() bool {
	switch s {
	case SocialTypeKakao, SocialTypeNaver:
		return true
	default:
		return false
	}
}

// ParseSocialType safely parses a string into a SocialType
func ParseSocialType(raw string) (SocialType, bool) {
	st := SocialType(strings.ToUpper(strings.TrimSpace(raw)))
	return st, st.IsValid()
}

// FlagYN is a yes/no column flag
type FlagYN string

const (
	FlagYes FlagYN = "Y"
	FlagNo  FlagYN = "N"
)

// Account is the primary identity record, keyed by the unique
// (social_id, social_type) pair. An account exists from the first successful
// social login onwards, whether or not the user ever registers as a member.
// Accounts are never deleted by this package.
type Account struct {
	bun.BaseModel   `bun:"table:accounts,alias:acc"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	SocialID        string     `bun:"social_id,notnull" json:"social_id,omitempty"`
	SocialType      SocialType `bun:"social_type,notnull" json:"social_type,omitempty"`
	Email           string     `bun:"email,notnull" json:"email,omitempty"`
	ProfileImageURL string     `bun:"profile_image_url" json:"profile_image_url,omitempty"`
	MemberYn        FlagYN     `bun:"member_yn,notnull,default:'N'" json:"member_yn,omitempty"`
	RefreshToken    string     `bun:"refresh_token,nullzero" json:"-"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsMember reports whether the account completed member registration.
func (a *Account) IsMember() bool {
	return a != nil && a.MemberYn == FlagYes
}

// Login records the refresh token minted for this session. The new token
// replaces whatever was stored before; only the latest refresh token is valid
// for reissue.
func (a *Account) Login(refreshToken string) {
	a.RefreshToken = refreshToken
}

// Member is the registered-user record, created only after a user explicitly
// completes onboarding. One member per account, lifetime tied to the account.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:mbr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,unique,type:uuid" json:"account_id,omitempty"`
	Account       *Account   `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
	Nickname      string     `bun:"nickname" json:"nickname,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
