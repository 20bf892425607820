package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anonmap/anonmap-backend/internal/domain"
)

// memProfileRepo is an in-memory ProfileRepository for tests.
type memProfileRepo struct {
	mu       sync.Mutex
	profiles []*domain.Profile
	nextID   int

	createErr  error
	lastSubErr error
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{nextID: 1}
}

func (r *memProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	profile.ID = r.nextID
	r.nextID++
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	stored := *profile
	r.profiles = append(r.profiles, &stored)
	return nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id int) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *memProfileRepo) ListByStatus(_ context.Context, status domain.ModerationStatus) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Profile{}
	for _, p := range r.profiles {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProfileRepo) ListApproved(_ context.Context) ([]domain.PublicProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.PublicProfile{}
	for _, p := range r.profiles {
		if p.Status == domain.StatusApproved {
			out = append(out, p.Public())
		}
	}
	return out, nil
}

func (r *memProfileRepo) Approve(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			p.Status = domain.StatusApproved
			return nil
		}
	}
	return domain.ErrProfileNotFound
}

func (r *memProfileRepo) LastSubmissionAt(_ context.Context, origin string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastSubErr != nil {
		return nil, r.lastSubErr
	}
	var last *time.Time
	for _, p := range r.profiles {
		if p.SubmitterOrigin == origin && (last == nil || p.CreatedAt.After(*last)) {
			ts := p.CreatedAt
			last = &ts
		}
	}
	return last, nil
}

func (r *memProfileRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}

// fakeBlobStore records uploads and can be told to fail.
type fakeBlobStore struct {
	mu      sync.Mutex
	uploads []string
	fail    bool
}

func (s *fakeBlobStore) Upload(_ context.Context, objectName, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("store unavailable")
	}
	s.uploads = append(s.uploads, objectName)
	return fmt.Sprintf("http://blobs.local/avatars/%s", objectName), nil
}

func (s *fakeBlobStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}
