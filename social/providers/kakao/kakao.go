package kakao

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

const defaultUserURL = "https://kapi.kakao.com/v2/user/me"

// Config holds Kakao provider configuration.
type Config struct {
	UserURL string

	HTTPClient *http.Client
}

// Provider implements social.Provider for Kakao.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Kakao provider.
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
	return "kakao"
}

// Type implements social.Provider.
func (p *Provider) Type() auth.SocialType {
	return auth.SocialTypeKakao
}

// UserInfo implements social.Provider. Kakao serves the profile on a POST
// endpoint authorized by the user's access token.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*social.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.UserURL, bytes.NewReader(nil))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

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

	var user kakaoUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, malformed("user_info", resp.StatusCode, "failed to decode user response", err)
	}

	if user.ID == 0 {
		return nil, malformed("user_info", resp.StatusCode, "missing user id", nil)
	}

	// identity fields must be present; a missing nickname is the only
	// omission the login flow tolerates
	if user.Account == nil {
		return nil, malformed("user_info", resp.StatusCode, "missing kakao_account", nil)
	}
	if user.Account.Email == "" {
		return nil, malformed("user_info", resp.StatusCode, "missing email", nil)
	}
	if user.Account.Profile == nil || user.Account.Profile.ThumbnailImageURL == "" {
		return nil, malformed("user_info", resp.StatusCode, "missing profile image", nil)
	}

	return mapProfile(&user), nil
}

type kakaoAPIError struct {
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

func apiErrorMessage(body []byte) string {
	var apiErr kakaoAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return "kakao request failed"
}

func unavailable(operation string, status int, description string, err error) error {
	return social.WrapProviderError(social.ErrProviderUnavailable, "kakao", operation, &social.ProviderError{
		Provider:    "kakao",
		Operation:   operation,
		Status:      status,
		Description: description,
		Err:         err,
	})
}

func malformed(operation string, status int, description string, err error) error {
	return social.WrapProviderError(social.ErrProviderResponseMalformed, "kakao", operation, &social.ProviderError{
		Provider:    "kakao",
		Operation:   operation,
		Status:      status,
		Description: description,
		Err:         err,
	})
}
