package submission

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/repository"
)

// BlobStore is the avatar store contract consumed by the pipeline.
type BlobStore interface {
	Upload(ctx context.Context, objectName, filePath, contentType string) (string, error)
}

// Outcome is the internal result of a submission. Throttled submissions
// are reported to the client exactly like accepted ones; keeping the
// branch named here is what makes the masking testable.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeThrottled
)

// Result carries the submission outcome. Profile is nil when throttled.
type Result struct {
	Outcome Outcome
	Profile *domain.Profile
}

// UseCase runs the submission pipeline: validate, rate-limit, upload the
// avatar, insert the pending record. Upload and insert are two separate
// calls with no transaction: a crash in between leaves an orphaned blob
// (accepted leak) but never a record pointing at a missing blob.
type UseCase struct {
	validator *Validator
	limiter   *RateLimiter
	profiles  repository.ProfileRepository
	avatars   BlobStore
	objectKey func(ext string) string
}

func NewUseCase(
	validator *Validator,
	limiter *RateLimiter,
	profiles repository.ProfileRepository,
	avatars BlobStore,
) *UseCase {
	return &UseCase{
		validator: validator,
		limiter:   limiter,
		profiles:  profiles,
		avatars:   avatars,
		// Timestamp-derived keys, collisions treated as negligible.
		objectKey: func(ext string) string {
			return fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
		},
	}
}

// Submit runs the pipeline for one submission. Validation failures carry a
// *domain.InvalidInputError and cause no storage side effect. A throttled
// submission returns OutcomeThrottled with no side effect; the caller must
// answer it exactly like an accepted one. Any other error is internal.
func (uc *UseCase) Submit(ctx context.Context, raw RawSubmission, file *AvatarFile, origin string) (*Result, error) {
	defer uc.removeTemp(file)

	req, err := uc.validator.Validate(raw, file)
	if err != nil {
		return nil, err
	}

	if !uc.limiter.Allow(ctx, origin) {
		slog.Info("submission throttled", "origin", origin)
		return &Result{Outcome: OutcomeThrottled}, nil
	}

	key := uc.objectKey(file.Ext)
	avatarURL, err := uc.avatars.Upload(ctx, key, file.Path, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", err)
	}

	profile := &domain.Profile{
		Handle:          req.Handle,
		Description:     req.Description,
		AvatarURL:       avatarURL,
		Lat:             req.Lat,
		Lng:             req.Lng,
		AnonRadiusM:     req.AnonRadiusM,
		SubmitterOrigin: origin,
		Status:          domain.StatusPending,
	}
	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile insert failed: %w", err)
	}

	slog.Info("profile submitted", "id", profile.ID, "handle", profile.Handle)
	return &Result{Outcome: OutcomeAccepted, Profile: profile}, nil
}

// removeTemp deletes the spooled avatar file. Runs on every exit path;
// failure is logged, never propagated.
func (uc *UseCase) removeTemp(file *AvatarFile) {
	if file == nil || file.Path == "" {
		return
	}
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temp avatar file", "path", file.Path, "error", err)
	}
}
