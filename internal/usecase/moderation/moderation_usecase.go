package moderation

import (
	"context"
	"log/slog"

	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/repository"
)

// ApprovedCache is invalidated after an approval so the public list picks
// the new profile up immediately.
type ApprovedCache interface {
	Invalidate(ctx context.Context)
}

// UseCase is the moderation gate: list what is pending, approve by id.
// Approval is the only mutation this system performs on a profile and it
// never reverts.
type UseCase struct {
	profiles repository.ProfileRepository
	cache    ApprovedCache
}

// NewUseCase creates the gate. cache may be nil.
func NewUseCase(profiles repository.ProfileRepository, cache ApprovedCache) *UseCase {
	return &UseCase{profiles: profiles, cache: cache}
}

// ListPending returns all profiles awaiting moderation, oldest first.
func (uc *UseCase) ListPending(ctx context.Context) ([]*domain.Profile, error) {
	return uc.profiles.ListByStatus(ctx, domain.StatusPending)
}

// Approve transitions one profile to approved. Re-approving is a no-op
// success; an unknown id returns domain.ErrProfileNotFound and changes
// nothing.
func (uc *UseCase) Approve(ctx context.Context, id int) error {
	if err := uc.profiles.Approve(ctx, id); err != nil {
		return err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	slog.Info("profile approved", "id", id)
	return nil
}
