package kakao

import (
	"strconv"

	auth "github.com/SemiPerm/backend"
	"github.com/SemiPerm/backend/social"
)

type kakaoUser struct {
	ID      int64         `json:"id"`
	Account *kakaoAccount `json:"kakao_account"`
}

type kakaoAccount struct {
	Email   string        `json:"email"`
	Profile *kakaoProfile `json:"profile"`
}

type kakaoProfile struct {
	Nickname          string `json:"nickname"`
	ThumbnailImageURL string `json:"thumbnail_image_url"`
	ProfileImageURL   string `json:"profile_image_url"`
}

func mapProfile(user *kakaoUser) *social.Profile {
	if user == nil || user.Account == nil || user.Account.Profile == nil {
		return nil
	}

	return &social.Profile{
		SocialID:        strconv.FormatInt(user.ID, 10),
		SocialType:      auth.SocialTypeKakao,
		Email:           user.Account.Email,
		ProfileImageURL: user.Account.Profile.ThumbnailImageURL,
		Raw: map[string]any{
			"id":                  user.ID,
			"email":               user.Account.Email,
			"nickname":            user.Account.Profile.Nickname,
			"thumbnail_image_url": user.Account.Profile.ThumbnailImageURL,
			"profile_image_url":   user.Account.Profile.ProfileImageURL,
		},
	}
}
