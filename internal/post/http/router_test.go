package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	authservice "github.com/devlink/devlink/backend/internal/auth/service"
	"github.com/devlink/devlink/backend/internal/common/authgate"
	"github.com/devlink/devlink/backend/internal/common/clock"
	commoncrypto "github.com/devlink/devlink/backend/internal/common/crypto"
	"github.com/devlink/devlink/backend/internal/common/logger"
	"github.com/devlink/devlink/backend/internal/post/domain"
	posthttp "github.com/devlink/devlink/backend/internal/post/http"
	postrepo "github.com/devlink/devlink/backend/internal/post/repository"
	"github.com/devlink/devlink/backend/internal/post/service"
	userdomain "github.com/devlink/devlink/backend/internal/user/domain"
	userrepo "github.com/devlink/devlink/backend/internal/user/repository"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

type memoryPostRepository struct {
	mu    sync.Mutex
	posts map[string]domain.Post
}

func newMemoryPostRepository() *memoryPostRepository {
	return &memoryPostRepository{posts: make(map[string]domain.Post)}
}

func (r *memoryPostRepository) Create(ctx context.Context, post domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = post
	return nil
}

func (r *memoryPostRepository) FindByID(ctx context.Context, id string) (domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return domain.Post{}, postrepo.ErrPostNotFound
	}
	return post, nil
}

func (r *memoryPostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := make([]domain.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *memoryPostRepository) Save(ctx context.Context, post domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return postrepo.ErrPostNotFound
	}
	r.posts[post.ID] = post
	return nil
}

func (r *memoryPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return postrepo.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memoryPostRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, post := range r.posts {
		if post.User == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

type staticUserRepository struct {
	users map[userdomain.ID]userdomain.User
}

func (r *staticUserRepository) Create(ctx context.Context, user userdomain.User) error { return nil }

func (r *staticUserRepository) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *staticUserRepository) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (r *staticUserRepository) Delete(ctx context.Context, id userdomain.ID) error { return nil }

type postTestEnv struct {
	handler http.Handler
	tokens  *authservice.TokenIssuer
}

func newPostTestEnv(t *testing.T) *postTestEnv {
	t.Helper()

	log, _ := logger.New("", "test", "info")
	users := &staticUserRepository{users: map[userdomain.ID]userdomain.User{
		"user-a": {ID: "user-a", Name: "Alice", Avatar: "alice-avatar"},
		"user-b": {ID: "user-b", Name: "Bob", Avatar: "bob-avatar"},
	}}
	repo := newMemoryPostRepository()
	idGenerator := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()
	tokens := authservice.NewTokenIssuer(testJWTSecret, time.Hour, clk)

	svc := service.NewPostService(repo, users, idGenerator, clk, log)
	return &postTestEnv{
		handler: posthttp.NewHandler(svc, testJWTSecret, log),
		tokens:  tokens,
	}
}

func (env *postTestEnv) do(t *testing.T, method, path string, asUser userdomain.ID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if asUser != "" {
		token, err := env.tokens.Issue(asUser)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		req.Header.Set(authgate.TokenHeader, token)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func TestPostHandler_CreateAndGet(t *testing.T) {
	env := newPostTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts", "user-a", map[string]string{"text": "hello world"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created post: %v", err)
	}
	if created.Name != "Alice" || created.Avatar != "alice-avatar" {
		t.Errorf("expected attribution snapshot, got %+v", created)
	}

	getRec := env.do(t, http.MethodGet, "/api/posts/"+created.ID, "user-a", nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}
}

func TestPostHandler_RequiresToken(t *testing.T) {
	env := newPostTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/posts", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestPostHandler_CommentFlow(t *testing.T) {
	env := newPostTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts", "user-a", map[string]string{"text": "a post"})
	var created domain.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created post: %v", err)
	}

	// Bob comments on Alice's post.
	commentRec := env.do(t, http.MethodPost, "/api/posts/comment/"+created.ID, "user-b", map[string]string{"text": "nice post"})
	if commentRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", commentRec.Code, commentRec.Body.String())
	}

	var comments []domain.Comment
	if err := json.Unmarshal(commentRec.Body.Bytes(), &comments); err != nil {
		t.Fatalf("failed to decode comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].User != "user-b" || comments[0].Name != "Bob" {
		t.Errorf("expected Bob's attribution, got %+v", comments[0])
	}

	// Alice owns the post but did not write the comment, so she cannot
	// remove it.
	forbidden := env.do(t, http.MethodDelete, "/api/posts/comment/"+created.ID+"/"+comments[0].ID, "user-a", nil)
	if forbidden.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-author, got %d: %s", forbidden.Code, forbidden.Body.String())
	}

	removed := env.do(t, http.MethodDelete, "/api/posts/comment/"+created.ID+"/"+comments[0].ID, "user-b", nil)
	if removed.Code != http.StatusOK {
		t.Fatalf("expected 200 for author, got %d: %s", removed.Code, removed.Body.String())
	}

	var remaining []domain.Comment
	if err := json.Unmarshal(removed.Body.Bytes(), &remaining); err != nil {
		t.Fatalf("failed to decode comments: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no comments left, got %+v", remaining)
	}
}

func TestPostHandler_LikeFlow(t *testing.T) {
	env := newPostTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts", "user-a", map[string]string{"text": "a post"})
	var created domain.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created post: %v", err)
	}

	likeRec := env.do(t, http.MethodPut, "/api/posts/like/"+created.ID, "user-b", nil)
	if likeRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", likeRec.Code, likeRec.Body.String())
	}

	dupRec := env.do(t, http.MethodPut, "/api/posts/like/"+created.ID, "user-b", nil)
	if dupRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate like, got %d", dupRec.Code)
	}

	var envelope map[string]any
	if err := json.Unmarshal(dupRec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope["code"] != "ALREADY_LIKED" {
		t.Errorf("expected code ALREADY_LIKED, got %v", envelope["code"])
	}

	unlikeRec := env.do(t, http.MethodPut, "/api/posts/unlike/"+created.ID, "user-b", nil)
	if unlikeRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", unlikeRec.Code)
	}

	neverRec := env.do(t, http.MethodPut, "/api/posts/unlike/"+created.ID, "user-b", nil)
	if neverRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unlike without like, got %d", neverRec.Code)
	}
}

func TestPostHandler_DeleteByNonOwner(t *testing.T) {
	env := newPostTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts", "user-a", map[string]string{"text": "a post"})
	var created domain.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created post: %v", err)
	}

	forbidden := env.do(t, http.MethodDelete, "/api/posts/"+created.ID, "user-b", nil)
	if forbidden.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", forbidden.Code, forbidden.Body.String())
	}

	ok := env.do(t, http.MethodDelete, "/api/posts/"+created.ID, "user-a", nil)
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", ok.Code)
	}

	gone := env.do(t, http.MethodGet, "/api/posts/"+created.ID, "user-a", nil)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", gone.Code)
	}
}
