package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/devlink/devlink/backend/internal/auth/service"
	"github.com/devlink/devlink/backend/internal/common/clock"
	commoncrypto "github.com/devlink/devlink/backend/internal/common/crypto"
	"github.com/devlink/devlink/backend/internal/common/logger"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
	userrepo "github.com/devlink/devlink/backend/internal/user/repository"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user userdomain.User) error
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc    func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	deleteFunc      func(ctx context.Context, id userdomain.ID) error
}

func (m *mockUserRepository) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id userdomain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed:"+password {
		return errInvalidPassword
	}
	return nil
}

var errInvalidPassword = &passwordMismatchError{}

type passwordMismatchError struct{}

func (e *passwordMismatchError) Error() string { return "password mismatch" }

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "generated-id", nil
}

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepository, *mockHasher, *clock.MockClock) {
	t.Helper()

	log, _ := logger.New("", "test", "info")
	repo := &mockUserRepository{}
	hasher := &mockHasher{}
	idGenerator := &mockIDGenerator{}
	mockClock := clock.NewMockClock(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))
	tokens := service.NewTokenIssuer(testJWTSecret, time.Hour, mockClock)

	svc := service.NewAuthService(repo, hasher, idGenerator, tokens, mockClock, log)
	return svc, repo, hasher, mockClock
}

var _ commoncrypto.PasswordHasher = (*mockHasher)(nil)
var _ commoncrypto.IDGenerator = (*mockIDGenerator)(nil)
var _ userrepo.Repository = (*mockUserRepository)(nil)
