package service

import (
	"context"
	"errors"
	"strings"

	dom "TDL/internal/domain"
	"TDL/internal/repo"
	"TDL/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both unknown email and wrong
// password so login failures never reveal whether an account exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrEmailTaken = errors.New("email already exists")

// UserService handles signup, login, profile and password-reset logic.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Signup creates a new account with a hashed password. Plaintext is never
// stored.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (dom.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || !utils.IsValidEmail(email) || !utils.IsValidPasswordLength(password) {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, name, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Login checks email and password; returns the user if valid. Unknown
// email and hash mismatch fail with the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (dom.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields to the user. A new password is
// re-hashed before storage.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, name, email, password *string) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return dom.User{}, ErrInvalidCredentials
		}
		u.Name = n
	}
	if email != nil {
		e := normalizeEmail(*email)
		if !utils.IsValidEmail(e) {
			return dom.User{}, ErrInvalidCredentials
		}
		u.Email = e
	}
	if password != nil {
		if !utils.IsValidPasswordLength(*password) {
			return dom.User{}, ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return dom.User{}, err
		}
		u.PasswordHash = string(hash)
	}
	out, err := s.repo.Update(ctx, u)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return out, nil
}

// CheckEmail reports whether an account with this email exists. Used by the
// password-reset flow, which is allowed to disclose existence.
func (s *UserService) CheckEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	_, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ResetPassword replaces the account's password with a fresh hash.
func (s *UserService) ResetPassword(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if !utils.IsValidPasswordLength(password) {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.repo.UpdatePasswordByEmail(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
