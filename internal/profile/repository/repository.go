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
	"github.com/devlink/devlink/backend/internal/profile/domain"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repository stores each profile as one whole document keyed by the owning
// user id. Upsert rewrites the document; nested lists never get partial
// updates.
type Repository interface {
	FindByUser(ctx context.Context, userID string) (domain.Profile, error)
	FindAll(ctx context.Context) ([]domain.Profile, error)
	Upsert(ctx context.Context, profile domain.Profile) error
	DeleteByUser(ctx context.Context, userID string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) FindByUser(ctx context.Context, userID string) (domain.Profile, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT doc FROM profiles WHERE user_id = $1`, userID)

	var doc []byte
	err := row.Scan(&doc)
	commondb.ObserveQuery("find_profile_by_user", "profiles", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to find profile by user: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return profile, nil
}

func (r *PgRepository) FindAll(ctx context.Context) ([]domain.Profile, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, `SELECT doc FROM profiles ORDER BY updated_at DESC`)
	commondb.ObserveQuery("find_all_profiles", "profiles", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		var profile domain.Profile
		if err := json.Unmarshal(doc, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return profiles, nil
}

func (r *PgRepository) Upsert(ctx context.Context, profile domain.Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	start := time.Now()
	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO profiles (user_id, doc, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		profile.User,
		doc,
	)
	commondb.ObserveQuery("upsert_profile", "profiles", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *PgRepository) DeleteByUser(ctx context.Context, userID string) error {
	start := time.Now()
	_, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	commondb.ObserveQuery("delete_profile_by_user", "profiles", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete profile by user: %w", err)
	}
	return nil
}
