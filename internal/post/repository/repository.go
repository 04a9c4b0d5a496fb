package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/devlink/devlink/backend/internal/common/db"
	"github.com/devlink/devlink/backend/internal/post/domain"
)

var ErrPostNotFound = errors.New("post not found")

// Repository stores each post as one whole document keyed by id. Every
// nested-list change goes through Save, which rewrites the document; there is
// no partial-field update and no optimistic concurrency control.
type Repository interface {
	Create(ctx context.Context, post domain.Post) error
	FindByID(ctx context.Context, id string) (domain.Post, error)
	FindAll(ctx context.Context) ([]domain.Post, error)
	Save(ctx context.Context, post domain.Post) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) error {
	doc, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	start := time.Now()
	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO posts (id, user_id, doc, created_at) VALUES ($1, $2, $3, $4)`,
		post.ID,
		post.User,
		doc,
		post.Date,
	)
	commondb.ObserveQuery("create_post", "posts", start, err)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Post, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT doc FROM posts WHERE id = $1`, id)

	var doc []byte
	err := row.Scan(&doc)
	commondb.ObserveQuery("find_post_by_id", "posts", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to find post by id: %w", err)
	}

	var post domain.Post
	if err := json.Unmarshal(doc, &post); err != nil {
		return domain.Post{}, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	return post, nil
}

func (r *PgRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, `SELECT doc FROM posts ORDER BY created_at DESC`)
	commondb.ObserveQuery("find_all_posts", "posts", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		var post domain.Post
		if err := json.Unmarshal(doc, &post); err != nil {
			return nil, fmt.Errorf("failed to unmarshal post: %w", err)
		}
		posts = append(posts, post)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return posts, nil
}

func (r *PgRepository) Save(ctx context.Context, post domain.Post) error {
	doc, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	start := time.Now()
	tag, err := r.pool.Exec(ctx, `UPDATE posts SET doc = $2 WHERE id = $1`, post.ID, doc)
	commondb.ObserveQuery("save_post", "posts", start, err)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	commondb.ObserveQuery("delete_post", "posts", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PgRepository) DeleteByUser(ctx context.Context, userID string) error {
	start := time.Now()
	_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
	commondb.ObserveQuery("delete_posts_by_user", "posts", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete posts by user: %w", err)
	}
	return nil
}
