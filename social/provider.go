package social

import (
	"context"
	"fmt"

	auth "github.com/SemiPerm/backend"
)

// Provider fetches a normalized identity profile from a social identity
// provider, given an OAuth2 access token the client already obtained.
type Provider interface {
	// Name returns the provider identifier (e.g. "kakao", "naver").
	Name() string

	// Type returns the account social type the provider maps to.
	Type() auth.SocialType

	// UserInfo fetches the user's profile using the access token.
	UserInfo(ctx context.Context, accessToken string) (*Profile, error)
}

// Profile represents normalized user information from a social provider.
// SocialID and SocialType together identify the account; Email and
// ProfileImageURL are best-effort and may be empty.
type Profile struct {
	SocialID        string
	SocialType      auth.SocialType
	Email           string
	ProfileImageURL string
	Raw             map[string]any
}

// ToAccount maps the profile onto a new, not yet persisted Account record.
func (p *Profile) ToAccount() *auth.Account {
	if p == nil {
		return nil
	}

	return &auth.Account{
		SocialID:        p.SocialID,
		SocialType:      p.SocialType,
		Email:           p.Email,
		ProfileImageURL: p.ProfileImageURL,
		MemberYn:        auth.FlagNo,
	}
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider, replacing any previous one with the same name.
func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	r.providers[p.Name()] = p
}

// Get looks up a provider by name, failing with ErrProviderNotFound.
func (r *Registry) Get(name string) (Provider, error) {
	if r == nil {
		return nil, ErrProviderNotFound
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return p, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
