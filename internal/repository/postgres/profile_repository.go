package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			handle, description, avatar_url, lat, lng,
			anon_radius_m, submitter_origin, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		profile.Handle, profile.Description, profile.AvatarURL,
		profile.Lat, profile.Lng, profile.AnonRadiusM,
		profile.SubmitterOrigin, profile.Status,
	).Scan(&profile.ID, &profile.CreatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id int) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT * FROM profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ListByStatus(ctx context.Context, status domain.ModerationStatus) ([]*domain.Profile, error) {
	profiles := []*domain.Profile{}
	query := `
		SELECT id, handle, description, avatar_url, lat, lng,
		       anon_radius_m, submitter_origin, status, created_at
		FROM profiles
		WHERE status = $1
		ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &profiles, query, status)
	return profiles, err
}

func (r *profileRepository) ListApproved(ctx context.Context) ([]domain.PublicProfile, error) {
	profiles := []domain.PublicProfile{}
	query := `
		SELECT id, handle, avatar_url, lat, lng, anon_radius_m, description
		FROM profiles
		WHERE status = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &profiles, query, domain.StatusApproved)
	return profiles, err
}

// Approve transitions a profile to approved. Re-approving an already
// approved profile matches the row and is a no-op success; only an unknown
// id reports not found.
func (r *profileRepository) Approve(ctx context.Context, id int) error {
	query := `UPDATE profiles SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, domain.StatusApproved, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) LastSubmissionAt(ctx context.Context, origin string) (*time.Time, error) {
	var last time.Time
	query := `
		SELECT created_at FROM profiles
		WHERE submitter_origin = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, origin).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &last, nil
}
