package submission

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonmap/anonmap-backend/internal/repository"
)

// SubmitWindow is the minimum gap between two submissions from the same
// origin.
const SubmitWindow = 60 * time.Second

// RateLimiter throttles submissions per origin by comparing against the
// most recent stored submission timestamp. It only reads; the new
// timestamp is recorded by the insert that follows an allowed check, so
// two submissions racing inside the window can both pass. That is accepted:
// origin keys are attacker-controllable and this is an abuse deterrent,
// not a security boundary.
type RateLimiter struct {
	profiles repository.ProfileRepository
	now      func() time.Time
}

func NewRateLimiter(profiles repository.ProfileRepository) *RateLimiter {
	return &RateLimiter{profiles: profiles, now: time.Now}
}

// Allow reports whether a submission from origin may proceed. A failed
// lookup fails open: a store blip should not reject legitimate submissions
// to protect a best-effort throttle.
func (l *RateLimiter) Allow(ctx context.Context, origin string) bool {
	last, err := l.profiles.LastSubmissionAt(ctx, origin)
	if err != nil {
		slog.Warn("rate limit lookup failed, allowing", "origin", origin, "error", err)
		return true
	}
	if last == nil {
		return true
	}
	return l.now().Sub(*last) >= SubmitWindow
}
