package naver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	auth "github.com/SemiPerm/backend"
	"github.com/SemiPerm/backend/social"
	"github.com/SemiPerm/backend/social/providers/naver"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(handler http.HandlerFunc) (*naver.Provider, func()) {
	server := httptest.NewServer(handler)
	provider := naver.New(naver.Config{UserURL: server.URL})
	return provider, server.Close
}

func textCode(t *testing.T, err error) string {
	t.Helper()

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	return richErr.TextCode
}

func TestNaverUserInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the naver profile envelope", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "Bearer naver-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"resultcode": "00",
				"message": "success",
				"response": {
					"id": "abcDEF123",
					"email": "user@example.com",
					"nickname": "tester",
					"profile_image": "https://img.example.com/me.jpg"
				}
			}`))
		})
		defer teardown()

		profile, err := provider.UserInfo(ctx, "naver-token")

		require.NoError(t, err)
		assert.Equal(t, "abcDEF123", profile.SocialID)
		assert.Equal(t, auth.SocialTypeNaver, profile.SocialType)
		assert.Equal(t, "user@example.com", profile.Email)
		assert.Equal(t, "https://img.example.com/me.jpg", profile.ProfileImageURL)
	})

	t.Run("reports a missing response object as malformed", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"resultcode": "00", "message": "success"}`))
		})
		defer teardown()

		_, err := provider.UserInfo(ctx, "naver-token")

		require.Error(t, err)
		assert.Equal(t, social.TextCodeProviderBadResponse, textCode(t, err))
	})

	t.Run("reports a missing id as malformed", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"resultcode": "00", "response": {"email": "user@example.com"}}`))
		})
		defer teardown()

		_, err := provider.UserInfo(ctx, "naver-token")

		require.Error(t, err)
		assert.Equal(t, social.TextCodeProviderBadResponse, textCode(t, err))
	})

	t.Run("rejects a missing email as malformed", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"resultcode": "00",
				"response": {"id": "abcDEF123", "profile_image": "https://img.example.com/me.jpg"}
			}`))
		})
		defer teardown()

		_, err := provider.UserInfo(ctx, "naver-token")

		require.Error(t, err)
		assert.Equal(t, social.TextCodeProviderBadResponse, textCode(t, err))
	})

	t.Run("rejects a missing profile image as malformed", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"resultcode": "00",
				"response": {"id": "abcDEF123", "email": "user@example.com"}
			}`))
		})
		defer teardown()

		_, err := provider.UserInfo(ctx, "naver-token")

		require.Error(t, err)
		assert.Equal(t, social.TextCodeProviderBadResponse, textCode(t, err))
	})

	t.Run("tolerates a missing nickname", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"resultcode": "00",
				"response": {
					"id": "abcDEF123",
					"email": "user@example.com",
					"profile_image": "https://img.example.com/me.jpg"
				}
			}`))
		})
		defer teardown()

		profile, err := provider.UserInfo(ctx, "naver-token")

		require.NoError(t, err)
		assert.Equal(t, "abcDEF123", profile.SocialID)
	})

	t.Run("reports an error status as provider unavailable", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"resultcode": "024", "message": "Authentication failed"}`))
		})
		defer teardown()

		_, err := provider.UserInfo(ctx, "bad-token")

		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, social.TextCodeProviderUnavailable, richErr.TextCode)
		assert.Equal(t, "Authentication failed", richErr.Metadata["description"])
	})

	t.Run("reports an empty body as provider unavailable", func(t *testing.T) {
		provider, teardown := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		defer teardown()

		_, err := provider.UserInfo(ctx, "naver-token")

		require.Error(t, err)
		assert.Equal(t, social.TextCodeProviderUnavailable, textCode(t, err))
	})
}
