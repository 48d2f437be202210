package naver

import (
	auth "github.com/SemiPerm/backend"
	"github.com/SemiPerm/backend/social"
)

type naverEnvelope struct {
	ResultCode string     `json:"resultcode"`
	Message    string     `json:"message"`
	Response   *naverUser `json:"response"`
}

type naverUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

func mapProfile(user *naverUser) *social.Profile {
	if user == nil {
		return nil
	}

	return &social.Profile{
		SocialID:        user.ID,
		SocialType:      auth.SocialTypeNaver,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImage,
		Raw: map[string]any{
			"id":            user.ID,
			"email":         user.Email,
			"nickname":      user.Nickname,
			"profile_image": user.ProfileImage,
		},
	}
}
