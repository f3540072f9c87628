package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrEmptyCredentials = errors.New("username and password must not be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Service implements the login gate and the registration flow. Stored
// passwords are unsalted hex MD5 digests, matching the legacy credential
// rows this tool manages; see DESIGN.md before reusing this scheme.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login looks up the stored digest for the username and compares it with
// the digest of the supplied password. The two failure modes are reported
// distinctly; both leave the caller unauthenticated.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if hashPassword(password) != user.Password {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// Register stores a new credential. A duplicate username is not
// pre-checked; it fails at the storage layer and is reported generically.
func (s *Service) Register(ctx context.Context, username, password, confirm string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	return s.repo.CreateUser(ctx, &User{
		Username: username,
		Password: hashPassword(password),
	})
}

func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
