package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

type memUsers struct{ byName map[string]*domain.User }

func (m memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m memUsers) GetByUsername(_ context.Context, name string) (*domain.User, error) {
	if u, ok := m.byName[name]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m memUsers) List(context.Context) ([]domain.User, error) { return nil, nil }

func (m memUsers) UpdateProfile(context.Context, string, domain.Profile) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type memSessions struct{ items map[string]domain.Session }

func (m *memSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s *domain.Session) error {
	m.items[s.ID] = *s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memSessions) Extend(_ context.Context, id string, ttl time.Duration) error {
	s, ok := m.items[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(ttl)
	m.items[id] = s
	return nil
}

func newUseCase(t *testing.T) (*UseCase, *memSessions) {
	t.Helper()
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	users := memUsers{byName: map[string]*domain.User{
		"anna": {ID: "u1", Username: "anna", Name: "Анна", PasswordHash: hash},
	}}
	sessions := &memSessions{items: map[string]domain.Session{}}
	return New(users, sessions, Config{Secret: "test-secret", Issuer: "taskboard"}, nil), sessions
}

func TestLoginVerifyLogout(t *testing.T) {
	uc, sessions := newUseCase(t)
	ctx := context.Background()

	tokens, err := uc.Login(ctx, " anna ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u1", tokens.User.ID)
	assert.Len(t, sessions.items, 1)

	session, err := uc.Verify(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)

	_, err = uc.Verify(ctx, tokens.RefreshToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	require.NoError(t, uc.Logout(ctx, tokens.AccessToken))
	assert.Empty(t, sessions.items)
	_, err = uc.Verify(ctx, tokens.AccessToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	for _, tc := range []struct{ user, pass string }{
		{"anna", "wrong"},
		{"boris", "s3cret"},
		{"", ""},
	} {
		_, err := uc.Login(ctx, tc.user, tc.pass)
		require.ErrorIs(t, err, domain.ErrBadCredentials)
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	tokens, err := uc.Login(ctx, "anna", "s3cret")
	require.NoError(t, err)

	refreshed, err := uc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.AccessToken, refreshed.AccessToken)

	_, err = uc.Verify(ctx, refreshed.AccessToken)
	require.NoError(t, err)

	_, err = uc.Refresh(ctx, tokens.AccessToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	uc, sessions := newUseCase(t)
	other := New(uc.users, sessions, Config{Secret: "another"}, nil)
	ctx := context.Background()

	tokens, err := other.Login(ctx, "anna", "s3cret")
	require.NoError(t, err)

	_, err = uc.Verify(ctx, tokens.AccessToken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	_, err = uc.Verify(ctx, "not-a-jwt")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}
