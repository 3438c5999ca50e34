// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package credentials registers accounts and authenticates logins against
// the persisted user collection.
package credentials // import "github.com/softwhere/softwhere/internal/credentials"

import (
	"context"
	"strings"

	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
	"github.com/softwhere/softwhere/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 4

// MaxPasswordLength is the longest accepted password in bytes; bcrypt
// refuses longer input.
const MaxPasswordLength = 72

// Service owns the user collection.
type Service struct {
	users  store.UserStore
	hasher Hasher
}

// NewService returns a Service. A nil hasher falls back to bcrypt at the default cost.
func NewService(users store.UserStore, hasher Hasher) *Service {
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &Service{users: users, hasher: hasher}
}

// CheckUsername rejects blank usernames.
func CheckUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	return nil
}

// CheckPassword enforces the password length limits.
func CheckPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// ConfirmPassword compares a password with its confirmation.
func ConfirmPassword(password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return nil
}

// Register adds a new account and persists the user collection.
// Surrounding whitespace is not part of a username.
func (s *Service) Register(ctx context.Context, username, password, role string) error {
	username = strings.TrimSpace(username)
	if err := CheckUsername(username); err != nil {
		return err
	}
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return err
	}
	if findUser(users, username) >= 0 {
		return &CredentialError{Kind: DuplicateUsername, Username: username}
	}
	if err := CheckPassword(password); err != nil {
		return err
	}
	r, ok := model.ParseRole(role)
	if !ok {
		return ErrInvalidRole
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	users = append(users, model.User{Username: username, Password: hash, Role: r})
	if err := s.users.SaveUsers(ctx, users); err != nil {
		return err
	}
	logging.Infof("registered user %s (%s)", username, r)
	return nil
}

// Authenticate returns the role of username if password matches its stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (model.Role, error) {
	username = strings.TrimSpace(username)
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return "", err
	}
	i := findUser(users, username)
	if i < 0 {
		logging.Infof("login failed: unknown user %s", username)
		return "", ErrUnknownUser
	}
	if !s.hasher.Verify(users[i].Password, password) {
		logging.Infof("login failed: wrong password for %s", username)
		return "", ErrWrongPassword
	}
	return users[i].Role, nil
}

// NeedsBootstrap reports whether no account exists yet.
func (s *Service) NeedsBootstrap(ctx context.Context) (bool, error) {
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return false, err
	}
	return len(users) == 0, nil
}

// Bootstrap creates the first account, which is always an administrator.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	empty, err := s.NeedsBootstrap(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return ErrAlreadyBootstrapped
	}
	return s.Register(ctx, username, password, string(model.RoleAdmin))
}

// Users returns the persisted accounts.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	return s.users.LoadUsers(ctx)
}

func findUser(users []model.User, username string) int {
	for i, u := range users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
