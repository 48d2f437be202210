package naver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	auth "github.com/SemiPerm/backend"
	"github.com/SemiPerm/backend/social"
)

const defaultUserURL = "https://openapi.naver.com/v1/nid/me"

// Config holds Naver provider configuration.
type Config struct {
	UserURL string

	HTTPClient *http.Client
}

// Provider implements social.Provider for Naver.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Naver provider.
func New(cfg Config) *Provider {
	if cfg.UserURL == "" {
		cfg.UserURL = defaultUserURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
	}
}

// Name implements social.Provider.
func (p *Provider) Name() string {
	return "naver"
}

// Type implements social.Provider.
func (p *Provider) Type() auth.SocialType {
	return auth.SocialTypeNaver
}

// UserInfo implements social.Provider. Naver wraps the profile in a
// "response" envelope next to its result code.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*social.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, unavailable("user_info", 0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable("user_info", resp.StatusCode, "", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("user_info", resp.StatusCode, apiErrorMessage(body), nil)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, unavailable("user_info", resp.StatusCode, "empty response body", nil)
	}

	var envelope naverEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, malformed("user_info", resp.StatusCode, "failed to decode user response", err)
	}

	if envelope.Response == nil || envelope.Response.ID == "" {
		return nil, malformed("user_info", resp.StatusCode, "missing user id", nil)
	}

	// identity fields must be present; a missing nickname is the only
	// omission the login flow tolerates
	if envelope.Response.Email == "" {
		return nil, malformed("user_info", resp.StatusCode, "missing email", nil)
	}
	if envelope.Response.ProfileImage == "" {
		return nil, malformed("user_info", resp.StatusCode, "missing profile image", nil)
	}

	return mapProfile(envelope.Response), nil
}

func apiErrorMessage(body []byte) string {
	var envelope naverEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return "naver request failed"
}

func unavailable(operation string, status int, description string, err error) error {
	return social.WrapProviderError(social.ErrProviderUnavailable, "naver", operation, &social.ProviderError{
		Provider:    "naver",
		Operation:   operation,
		Status:      status,
		Description: description,
		Err:         err,
	})
}

func malformed(operation string, status int, description string, err error) error {
	return social.WrapProviderError(social.ErrProviderResponseMalformed, "naver", operation, &social.ProviderError{
		Provider:    "naver",
		Operation:   operation,
		Status:      status,
		Description: description,
		Err:         err,
	})
}
