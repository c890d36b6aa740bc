package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kdmarlow/intervue/internal/domain"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes      = 16
	digestBytes    = 64
	sessionTTL     = 7 * 24 * time.Hour
	minPasswordLen = 8
)

// AuthService handles user registration, login, password hashing, and the
// session token lifecycle.
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	iterations int
	now        func() time.Time
}

// NewAuthService creates a new AuthService. iterations is the PBKDF2
// iteration count; production wiring uses DefaultIterations, tests pass a
// small value.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, iterations int) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		iterations: iterations,
		now:        time.Now,
	}
}

// DefaultIterations is the PBKDF2 iteration count used in production.
const DefaultIterations = 100_000

// HashPassword derives a salted PBKDF2-SHA256 digest of the password and
// returns it as "hex(salt):hex(digest)".
func (s *AuthService) HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(password), salt, s.iterations, digestBytes, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest with the stored salt and compares in
// constant time. A malformed hash verifies as false, never as an error.
func (s *AuthService) VerifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, s.iterations, digestBytes, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// Register creates a new user account after validating inputs. The email is
// normalized to lowercase before storage and lookup.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if email == "" || name == "" || password == "" {
		return nil, fmt.Errorf("%w: email, name, and password are required", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if !s.VerifyPassword(password, user.PasswordHash) {
		return nil, "", domain.ErrUnauthorized
	}

	return user, s.CreateSession(user.ID), nil
}

// CreateSession stores a new opaque session token with a 7-day TTL and
// returns it for cookie embedding.
func (s *AuthService) CreateSession(userID string) string {
	token := uuid.NewString()
	s.sessions.Put(domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(sessionTTL),
	})
	return token
}

// ValidateSession resolves a token to a user id. Expired or unknown tokens
// fail with ErrUnauthorized; the store evicts expired entries on lookup.
func (s *AuthService) ValidateSession(token string) (string, error) {
	session, ok := s.sessions.Get(token)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return session.UserID, nil
}

// DestroySession removes a session token (logout). Unknown tokens are a
// no-op.
func (s *AuthService) DestroySession(token string) {
	s.sessions.Delete(token)
}

// GetUserByID retrieves a user by id.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// NormalizeEmail lowercases and trims an email address for use as a lookup
// key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
