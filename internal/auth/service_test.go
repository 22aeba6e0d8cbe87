package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

type mockRepository struct {
	nextID  int64
	byID    map[int64]*User
	byEmail map[string]*User
}

func newMockRepository() *mockRepository {
	return &mockRepository{byID: map[int64]*User{}, byEmail: map[string]*User{}}
}

func (m *mockRepository) Create(_ context.Context, user User) (int64, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return 0, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
	}
	m.nextID++
	user.ID = m.nextID
	m.byID[user.ID] = &user
	m.byEmail[user.Email] = &user
	return user.ID, nil
}

func (m *mockRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) FindByID(_ context.Context, id int64) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return u, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "anna@example.com",
		Name:     "Anna",
		Password: "correct horse",
		Locale:   "en",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, i18n.LocaleEN, user.Locale)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, user.IsActive)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@example.com", Name: "A", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@example.com", Name: "B", Password: "password2"})
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
}

func TestRegisterUnknownLocaleFallsBackToBase(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{Email: "b@example.com", Name: "B", Password: "password1", Locale: "fr"})
	require.NoError(t, err)
	assert.Equal(t, i18n.BaseLocale, user.Locale)
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	registered, err := svc.Register(context.Background(), RegisterRequest{Email: "anna@example.com", Name: "Anna", Password: "s3cret-pass"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "anna@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "anna@example.com", "wrong")
		assert.True(t, errors.Is(err, httpx.ErrUnauthorized))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "s3cret-pass")
		assert.True(t, errors.Is(err, httpx.ErrUnauthorized))
	})

	t.Run("inactive account", func(t *testing.T) {
		repo.byEmail["anna@example.com"].IsActive = false
		defer func() { repo.byEmail["anna@example.com"].IsActive = true }()
		_, err := svc.Authenticate(context.Background(), "anna@example.com", "s3cret-pass")
		assert.True(t, errors.Is(err, httpx.ErrUnauthorized))
	})
}

func TestGetValidatesID(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Get(context.Background(), 0)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}
