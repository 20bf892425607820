package domain

import "time"

// ModerationStatus gates public visibility of a profile.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
)

// AnonRadiiMeters are the selectable anonymization radii. The published
// point is guaranteed to lie within this distance of the true location.
var AnonRadiiMeters = []int{500, 1000, 3000, 5000, 10000, 15000, 20000, 25000, 30000}

// ValidAnonRadius reports whether r is one of the enumerated radii.
func ValidAnonRadius(r int) bool {
	for _, v := range AnonRadiiMeters {
		if v == r {
			return true
		}
	}
	return false
}

// Profile is the persisted record. Lat/Lng are the published decoy
// coordinates; the true location never reaches the server.
// SubmitterOrigin is used only for rate limiting and is never serialized.
type Profile struct {
	ID              int              `json:"id" db:"id"`
	Handle          string           `json:"pseudo" db:"handle"`
	Description     *string          `json:"description" db:"description"`
	AvatarURL       string           `json:"avatar_url" db:"avatar_url"`
	Lat             float64          `json:"lat" db:"lat"`
	Lng             float64          `json:"lng" db:"lng"`
	AnonRadiusM     int              `json:"anon_radius" db:"anon_radius_m"`
	SubmitterOrigin string           `json:"-" db:"submitter_origin"`
	Status          ModerationStatus `json:"status" db:"status"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// PublicProfile is the read-path projection served to all clients.
// Submitter origin and moderation status are never part of it.
type PublicProfile struct {
	ID          int     `json:"id" db:"id"`
	Handle      string  `json:"pseudo" db:"handle"`
	AvatarURL   string  `json:"avatar_url" db:"avatar_url"`
	Lat         float64 `json:"lat" db:"lat"`
	Lng         float64 `json:"lng" db:"lng"`
	AnonRadiusM int     `json:"anon_radius" db:"anon_radius_m"`
	Description *string `json:"description" db:"description"`
}

// Public returns the read-path projection of p.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		ID:          p.ID,
		Handle:      p.Handle,
		AvatarURL:   p.AvatarURL,
		Lat:         p.Lat,
		Lng:         p.Lng,
		AnonRadiusM: p.AnonRadiusM,
		Description: p.Description,
	}
}
