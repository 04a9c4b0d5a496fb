package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/devlink/devlink/backend/internal/common/clock"
	"github.com/devlink/devlink/backend/internal/common/logger"
	"github.com/devlink/devlink/backend/internal/post/domain"
	postrepo "github.com/devlink/devlink/backend/internal/post/repository"
	"github.com/devlink/devlink/backend/internal/post/service"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
	userrepo "github.com/devlink/devlink/backend/internal/user/repository"
)

type mockPostRepository struct {
	createFunc       func(ctx context.Context, post domain.Post) error
	findByIDFunc     func(ctx context.Context, id string) (domain.Post, error)
	findAllFunc      func(ctx context.Context) ([]domain.Post, error)
	saveFunc         func(ctx context.Context, post domain.Post) error
	deleteFunc       func(ctx context.Context, id string) error
	deleteByUserFunc func(ctx context.Context, userID string) error
}

func (m *mockPostRepository) Create(ctx context.Context, post domain.Post) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) FindByID(ctx context.Context, id string) (domain.Post, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Post{}, postrepo.ErrPostNotFound
}

func (m *mockPostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockPostRepository) Save(ctx context.Context, post domain.Post) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPostRepository) DeleteByUser(ctx context.Context, userID string) error {
	if m.deleteByUserFunc != nil {
		return m.deleteByUserFunc(ctx, userID)
	}
	return nil
}

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user userdomain.User) error {
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{ID: id, Name: "Test User", Avatar: "avatar-url"}, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id userdomain.ID) error {
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "generated-id", nil
}

func setupPostService(t *testing.T) (*service.PostService, *mockPostRepository, *mockUserRepository, *clock.MockClock) {
	t.Helper()

	log, _ := logger.New("", "test", "info")
	repo := &mockPostRepository{}
	users := &mockUserRepository{}
	idGenerator := &mockIDGenerator{}
	mockClock := clock.NewMockClock(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))

	svc := service.NewPostService(repo, users, idGenerator, mockClock, log)
	return svc, repo, users, mockClock
}

var _ postrepo.Repository = (*mockPostRepository)(nil)
var _ userrepo.Repository = (*mockUserRepository)(nil)
