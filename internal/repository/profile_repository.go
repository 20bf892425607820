package repository

import (
	"context"
	"time"

	"github.com/anonmap/anonmap-backend/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id int) (*domain.Profile, error)
	ListByStatus(ctx context.Context, status domain.ModerationStatus) ([]*domain.Profile, error)
	ListApproved(ctx context.Context) ([]domain.PublicProfile, error)
	Approve(ctx context.Context, id int) error
	LastSubmissionAt(ctx context.Context, origin string) (*time.Time, error)
}
