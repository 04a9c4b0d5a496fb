package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/devlink/devlink/backend/internal/common/clock"
	"github.com/devlink/devlink/backend/internal/common/logger"
	postdomain "github.com/devlink/devlink/backend/internal/post/domain"
	postrepo "github.com/devlink/devlink/backend/internal/post/repository"
	"github.com/devlink/devlink/backend/internal/profile/domain"
	profilerepo "github.com/devlink/devlink/backend/internal/profile/repository"
	"github.com/devlink/devlink/backend/internal/profile/service"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
	userrepo "github.com/devlink/devlink/backend/internal/user/repository"
)

type mockProfileRepository struct {
	findByUserFunc   func(ctx context.Context, userID string) (domain.Profile, error)
	findAllFunc      func(ctx context.Context) ([]domain.Profile, error)
	upsertFunc       func(ctx context.Context, profile domain.Profile) error
	deleteByUserFunc func(ctx context.Context, userID string) error
}

func (m *mockProfileRepository) FindByUser(ctx context.Context, userID string) (domain.Profile, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return domain.Profile{}, profilerepo.ErrProfileNotFound
}

func (m *mockProfileRepository) FindAll(ctx context.Context) ([]domain.Profile, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile domain.Profile) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	if m.deleteByUserFunc != nil {
		return m.deleteByUserFunc(ctx, userID)
	}
	return nil
}

type mockPostRepository struct {
	deleteByUserFunc func(ctx context.Context, userID string) error
}

func (m *mockPostRepository) Create(ctx context.Context, post postdomain.Post) error { return nil }

func (m *mockPostRepository) FindByID(ctx context.Context, id string) (postdomain.Post, error) {
	return postdomain.Post{}, postrepo.ErrPostNotFound
}

func (m *mockPostRepository) FindAll(ctx context.Context) ([]postdomain.Post, error) {
	return nil, nil
}

func (m *mockPostRepository) Save(ctx context.Context, post postdomain.Post) error { return nil }

func (m *mockPostRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockPostRepository) DeleteByUser(ctx context.Context, userID string) error {
	if m.deleteByUserFunc != nil {
		return m.deleteByUserFunc(ctx, userID)
	}
	return nil
}

type mockUserRepository struct {
	deleteFunc func(ctx context.Context, id userdomain.ID) error
}

func (m *mockUserRepository) Create(ctx context.Context, user userdomain.User) error { return nil }

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	return userdomain.User{ID: id}, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id userdomain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
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

func setupProfileService(t *testing.T) (*service.ProfileService, *mockProfileRepository, *mockUserRepository, *mockPostRepository, *mockIDGenerator, *clock.MockClock) {
	t.Helper()

	log, _ := logger.New("", "test", "info")
	repo := &mockProfileRepository{}
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	idGenerator := &mockIDGenerator{}
	mockClock := clock.NewMockClock(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))

	svc := service.NewProfileService(repo, users, posts, idGenerator, mockClock, log)
	return svc, repo, users, posts, idGenerator, mockClock
}

var _ profilerepo.Repository = (*mockProfileRepository)(nil)
var _ postrepo.Repository = (*mockPostRepository)(nil)
var _ userrepo.Repository = (*mockUserRepository)(nil)
