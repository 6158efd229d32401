package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiendago/backend/internal/domain"
)

type mockUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[int64]*domain.User)}
}

func (m *mockUserStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserStore) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type mockProfileStore struct {
	mu       sync.Mutex
	profiles map[int64]*domain.Profile
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[int64]*domain.Profile)}
}

func (m *mockProfileStore) GetByUserID(_ context.Context, userID int64) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockProfileStore) Upsert(_ context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *profile
	m.profiles[profile.UserID] = &clone
	return nil
}

func newTestAuthService() (*AuthService, *mockUserStore, *mockProfileStore) {
	users := newMockUserStore()
	profiles := newMockProfileStore()
	return NewAuthService(users, profiles, "test-secret", time.Hour), users, profiles
}

func registerRequest() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     "ana@example.com",
		Password:  "secret123",
		FirstName: "Ana",
		LastName:  "García",
	}
}

func TestRegisterCreatesCustomerWithProfile(t *testing.T) {
	svc, _, profiles := newTestAuthService()

	user, token, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	_, ok := profiles.profiles[user.ID]
	assert.True(t, ok, "registration must create an empty profile row")
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	tests := []struct {
		name   string
		mutate func(*domain.RegisterRequest)
	}{
		{"missing email", func(r *domain.RegisterRequest) { r.Email = "" }},
		{"invalid email", func(r *domain.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *domain.RegisterRequest) { r.Password = "abc" }},
		{"missing first name", func(r *domain.RegisterRequest) { r.FirstName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest()
			tt.mutate(&req)
			_, _, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, _ := newTestAuthService()

	registered, _, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.False(t, claims.IsAdmin())
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newTestAuthService()

	registered, _, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		users.mu.Lock()
		users.users[registered.ID].Active = false
		users.mu.Unlock()

		_, _, err := svc.Login(context.Background(), "ana@example.com", "secret123")
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc, _, _ := newTestAuthService()
	other := NewAuthService(newMockUserStore(), newMockProfileStore(), "another-secret", time.Hour)

	_, token, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := other.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewAuthService(newMockUserStore(), newMockProfileStore(), "test-secret", -time.Minute)
		user := &domain.User{ID: 1, Email: "ana@example.com", Role: domain.RoleCustomer}
		token, err := expired.issueToken(user)
		require.NoError(t, err)

		_, err = expired.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, _, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), user.ID, "secret123", "newsecret")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ana@example.com", "newsecret")
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "ana@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestEmailExists(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	exists, err := svc.EmailExists(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.EmailExists(context.Background(), "nadie@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.EmailExists(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
