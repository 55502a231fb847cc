package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/service"
	"github.com/mkhwld/store-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User // ключ — email
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return user, nil
}

func TestLogin_FirstLoginCreatesOwner(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	svc := service.NewAuthService(testLogger(), userRepo, time.Minute)

	token, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// учетная запись создана, пароль сохранен хэшем
	user, err := userRepo.GetUserByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PassHash, []byte("password123")))
}

func TestLogin_SecondLoginVerifiesPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	svc := service.NewAuthService(testLogger(), userRepo, time.Minute)

	_, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	svc := service.NewAuthService(testLogger(), userRepo, time.Minute)

	_, err := svc.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "owner@example.com", "wrong-password")
	assert.Error(t, err, "wrong password must not issue a token")
}
