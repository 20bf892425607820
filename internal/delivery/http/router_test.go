package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/anonmap/anonmap-backend/internal/delivery/http/handler"
	"github.com/anonmap/anonmap-backend/internal/delivery/http/middleware"
	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/usecase/moderation"
	"github.com/anonmap/anonmap-backend/internal/usecase/profile"
	"github.com/anonmap/anonmap-backend/internal/usecase/submission"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModerationToken = "test-moderation-secret"

type memProfileRepo struct {
	mu       sync.Mutex
	profiles []*domain.Profile
	nextID   int
}

func newMemProfileRepo() *memProfileRepo { return &memProfileRepo{nextID: 1} }

func (r *memProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	cp := *p
	r.profiles = append(r.profiles, &cp)
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
	var last *time.Time
	for _, p := range r.profiles {
		if p.SubmitterOrigin == origin && (last == nil || p.CreatedAt.After(*last)) {
			ts := p.CreatedAt
			last = &ts
		}
	}
	return last, nil
}

type fakeBlobStore struct{}

func (fakeBlobStore) Upload(_ context.Context, objectName, _, _ string) (string, error) {
	return fmt.Sprintf("http://blobs.local/avatars/%s", objectName), nil
}

func newTestRouter(repo *memProfileRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	queryUC := profile.NewUseCase(repo, nil)
	gateUC := moderation.NewUseCase(repo, queryUC)
	submitUC := submission.NewUseCase(
		submission.NewValidator(),
		submission.NewRateLimiter(repo),
		repo,
		fakeBlobStore{},
	)

	r := NewRouter(
		handler.NewSubmissionHandler(submitUC),
		handler.NewProfileHandler(queryUC),
		handler.NewModerationHandler(gateUC),
		middleware.NewModerationAuth(testModerationToken),
	)
	return r.Setup()
}

func multipartSubmission(t *testing.T, fields map[string]string, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withAvatar {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(make([]byte, 1024))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"pseudo":      "wanderer",
		"description": "somewhere around here",
		"lat":         "48.8566",
		"lng":         "2.3522",
		"anon_radius": "3000",
	}
}

func TestSubmitEndpoint(t *testing.T) {
	router := newTestRouter(newMemProfileRepo())

	body, contentType := multipartSubmission(t, validFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending moderation")
}

func TestSubmitEndpointValidationFailure(t *testing.T) {
	router := newTestRouter(newMemProfileRepo())

	fields := validFields()
	delete(fields, "pseudo")
	body, contentType := multipartSubmission(t, fields, true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_field")
}

func TestSubmitEndpointThrottledLooksLikeSuccess(t *testing.T) {
	router := newTestRouter(newMemProfileRepo())

	first := httptest.NewRecorder()
	body, contentType := multipartSubmission(t, validFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)

	// Second submission from the same origin inside the window.
	second := httptest.NewRecorder()
	body, contentType = multipartSubmission(t, validFields(), true)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/profiles", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(second, req)

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String(),
		"a throttled submission must be indistinguishable from an accepted one")
}

func TestReadEndpointRejectsNonGet(t *testing.T) {
	router := newTestRouter(newMemProfileRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profiles", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestModerationRequiresCredential(t *testing.T) {
	router := newTestRouter(newMemProfileRepo())

	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"wrong", "Bearer nope"},
		{"malformed", testModerationToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/pending", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestModerationApproveUnknownID(t *testing.T) {
	router := newTestRouter(newMemProfileRepo())

	payload, _ := json.Marshal(map[string]int{"id": 999})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/moderation/approve", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testModerationToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndToEndOverHTTP(t *testing.T) {
	repo := newMemProfileRepo()
	router := newTestRouter(repo)

	// Submit.
	body, contentType := multipartSubmission(t, validFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Pending list shows it, with no origin leaked in the JSON.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/moderation/pending", nil)
	req.Header.Set("Authorization", "Bearer "+testModerationToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var pending []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "wanderer", pending[0]["pseudo"])
	assert.Equal(t, string(domain.StatusPending), pending[0]["status"])
	assert.NotContains(t, pending[0], "submitter_origin")
	id := int(pending[0]["id"].(float64))

	// Not public yet.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Approve.
	payload, _ := json.Marshal(map[string]int{"id": id})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/moderation/approve", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testModerationToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Now public, in the projection.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var public []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &public))
	require.Len(t, public, 1)
	assert.Equal(t, "wanderer", public[0]["pseudo"])
	assert.Equal(t, float64(3000), public[0]["anon_radius"])
	assert.Contains(t, public[0]["avatar_url"], "http://blobs.local/avatars/")
	assert.NotContains(t, public[0], "submitter_origin")
	assert.NotContains(t, public[0], "status")
}
