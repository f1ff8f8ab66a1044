package service_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkovac21/accountd/internal/domain"
	"github.com/mkovac21/accountd/internal/repository"
	"github.com/mkovac21/accountd/internal/service"
	"github.com/mkovac21/accountd/pkg/token"
)

// memRepo is an in-memory UserRepository. It stores and returns copies so
// callers mutating a loaded user cannot bypass Update, same as a real store.
type memRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[uuid.UUID]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Tokens = slices.Clone(u.Tokens)
	c.Avatar = slices.Clone(u.Avatar)
	return &c
}

func (r *memRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *memRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func newAuthService(repo repository.UserRepository) *service.AuthService {
	return service.NewAuthService(repo, token.New("test-secret", 0))
}

func registerInput() service.RegisterInput {
	return service.RegisterInput{
		Name:     "A",
		Email:    "a@b.com",
		Password: "12345678",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := newAuthService(repo)

	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	require.NotEmpty(t, resp.Token)

	assert.Equal(t, "A", resp.User.Name)
	assert.Equal(t, "a@b.com", resp.User.Email)
	assert.Equal(t, domain.DefaultJobs, resp.User.Jobs)
	assert.NotEqual(t, "12345678", resp.User.PasswordHash)

	// The minted token is persisted in the account's live set.
	stored, err := repo.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.HasToken(resp.Token))
}

func TestRegisterNormalizesEmail(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := newAuthService(repo)

	input := registerInput()
	input.Email = "  A@B.Com "
	resp, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", resp.User.Email)

	// Login finds the account no matter the casing.
	_, err = svc.Login(context.Background(), service.LoginInput{Email: "A@B.COM", Password: "12345678"})
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemRepo())

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput())
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegisterInvalidFieldsCreateNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*service.RegisterInput)
	}{
		{"empty name", func(i *service.RegisterInput) { i.Name = "" }},
		{"bad email", func(i *service.RegisterInput) { i.Email = "not-an-email" }},
		{"negative age", func(i *service.RegisterInput) { i.Age = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			svc := newAuthService(repo)

			input := registerInput()
			tt.mutate(&input)

			_, err := svc.Register(context.Background(), input)
			require.Error(t, err)

			stored, err := repo.GetByEmail(context.Background(), service.NormalizeEmail(input.Email))
			require.NoError(t, err)
			assert.Nil(t, stored, "no partial write on validation failure")
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemRepo())

	reg, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), service.LoginInput{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	// The fresh token authenticates immediately.
	user, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
}

func TestLoginBadCredentialsShareOneError(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemRepo())

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), service.LoginInput{Email: "a@b.com", Password: "wrong-password"})
	_, unknownEmail := svc.Login(context.Background(), service.LoginInput{Email: "nobody@b.com", Password: "12345678"})

	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCreds)
	assert.ErrorIs(t, unknownEmail, service.ErrInvalidCreds)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := newAuthService(repo)

	reg, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	// Garbage token fails on signature.
	_, err = svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// Signed by another secret fails on signature too.
	foreign, err := token.New("other-secret", 0).Issue(reg.User.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), foreign)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// Verifiable token whose account is gone.
	require.NoError(t, repo.Delete(context.Background(), reg.User.ID))
	_, err = svc.Authenticate(context.Background(), reg.Token)
	assert.ErrorIs(t, err, service.ErrUnknownAccount)
}

func TestLogoutRemovesExactlyOneToken(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemRepo())

	reg, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	second, err := svc.Login(context.Background(), service.LoginInput{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)
	require.NotEqual(t, reg.Token, second.Token)

	user, err := svc.Authenticate(context.Background(), second.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), user, second.Token))

	_, err = svc.Authenticate(context.Background(), second.Token)
	assert.ErrorIs(t, err, service.ErrTokenRevoked)

	// The other session stays live.
	_, err = svc.Authenticate(context.Background(), reg.Token)
	assert.NoError(t, err)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newMemRepo())

	reg, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	tokens := []string{reg.Token}
	for range 3 {
		resp, err := svc.Login(context.Background(), service.LoginInput{Email: "a@b.com", Password: "12345678"})
		require.NoError(t, err)
		tokens = append(tokens, resp.Token)
	}

	user, err := svc.Authenticate(context.Background(), tokens[0])
	require.NoError(t, err)
	require.NoError(t, svc.LogoutAll(context.Background(), user))

	for _, tok := range tokens {
		_, err := svc.Authenticate(context.Background(), tok)
		assert.ErrorIs(t, err, service.ErrTokenRevoked)
	}
}
