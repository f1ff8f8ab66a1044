package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkovac21/accountd/internal/domain"
	"github.com/mkovac21/accountd/internal/repository"
	"github.com/mkovac21/accountd/pkg/password"
	"github.com/mkovac21/accountd/pkg/token"
)

var (
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCreds covers both unknown email and wrong password so a
	// caller cannot probe which emails are registered.
	ErrInvalidCreds = errors.New("invalid email or password")

	ErrInvalidToken   = errors.New("invalid token")
	ErrUnknownAccount = errors.New("unknown account")
	ErrTokenRevoked   = errors.New("token revoked")
)

// AuthService owns the session lifecycle: registration, credential login,
// per-request authentication and token revocation.
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *token.Issuer
}

func NewAuthService(userRepo repository.UserRepository, issuer *token.Issuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Jobs     string `json:"jobs"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	email := NormalizeEmail(input.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	jobs := input.Jobs
	if jobs == "" {
		jobs = domain.DefaultJobs
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Age:          input.Age,
		Jobs:         jobs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	tok, err := s.grantToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Token: tok}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCreds
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	tok, err := s.grantToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Token: tok}, nil
}

// Authenticate resolves a bearer token to its live principal: the signature
// must verify, the account must exist and the exact token string must still
// be in the account's token set.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*domain.User, error) {
	userID, err := s.issuer.Verify(tokenStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownAccount
	}

	if !user.HasToken(tokenStr) {
		return nil, ErrTokenRevoked
	}

	return user, nil
}

// Logout revokes exactly the token used for the current request.
func (s *AuthService) Logout(ctx context.Context, user *domain.User, tokenStr string) error {
	user.RemoveToken(tokenStr)
	return s.userRepo.Update(ctx, user)
}

// LogoutAll revokes every session the account has.
func (s *AuthService) LogoutAll(ctx context.Context, user *domain.User) error {
	user.ClearTokens()
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) grantToken(ctx context.Context, user *domain.User) (string, error) {
	tok, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	user.AddToken(tok)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("persisting token: %w", err)
	}

	return tok, nil
}
