// Package models holds the JSON payloads exchanged with the remote auth and
// users APIs.
package models

// User is the account representation returned by the API.
type User struct {
	UserID        int64   `json:"user_id"`
	Email         string  `json:"email"`
	FullName      string  `json:"full_name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	IDCard        *string `json:"id_card"`
	AvatarURL     *string `json:"avatar_url"`
	Role          string  `json:"role,omitempty"`
	EmailVerified bool    `json:"email_verified"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// UserEnvelope is the data of profile and verify-token responses.
type UserEnvelope struct {
	User User `json:"user"`
}

// ProfileUpdate is the body of PUT /profile. Nil fields are sent as null.
type ProfileUpdate struct {
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IDCard   *string `json:"id_card"`
}

// AvatarData is the data of a successful avatar upload.
type AvatarData struct {
	AvatarURL string `json:"avatar_url"`
}

// Optional returns nil for an empty string, mirroring the API's "empty means null".
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
