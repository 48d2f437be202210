package auth_test

import (
	"testing"

	auth "github.com/SemiPerm/backend"
	"github.com/stretchr/testify/assert"
)

func TestParseSocialType(t *testing.T) {
	tests := []struct {
		raw   string
		want  auth.SocialType
		valid bool
	}{
		{"KAKAO", auth.SocialTypeKakao, true},
		{"kakao", auth.SocialTypeKakao, true},
		{" naver ", auth.SocialTypeNaver, true},
		{"NAVER", auth.SocialTypeNaver, true},
		{"google", "GOOGLE", false},
		{"", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := auth.ParseSocialType(tc.raw)
			assert.Equal(t, tc.valid, ok)
			if tc.valid {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAccountIsMember(t *testing.T) {
	assert.False(t, (&auth.Account{MemberYn: auth.FlagNo}).IsMember())
	assert.False(t, (&auth.Account{}).IsMember())
	assert.True(t, (&auth.Account{MemberYn: auth.FlagYes}).IsMember())

	var nilAccount *auth.Account
	assert.False(t, nilAccount.IsMember())
}

func TestAccountLogin(t *testing.T) {
	account := &auth.Account{RefreshToken: "old-token"}

	account.Login("new-token")

	assert.Equal(t, "new-token", account.RefreshToken)
}
