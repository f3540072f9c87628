package auth

import "github.com/uptrace/bun"

// User is a login credential. Password holds the hex-encoded digest,
// never the plain text.
type User struct {
	bun.BaseModel `bun:"table:users"`

	Username string `bun:"username,pk" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}
