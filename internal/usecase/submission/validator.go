package submission

import (
	"errors"
	"strconv"
	"strings"

	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/geo"
	"github.com/go-playground/validator/v10"
)

// MaxAvatarBytes caps the avatar upload size.
const MaxAvatarBytes = 5 << 20 // 5 MiB

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Validator checks a raw submission and produces the typed Request.
// It is side-effect free.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate normalizes and checks a raw submission. Failures are reported
// as *domain.InvalidInputError with a kind precise enough for the client
// to correct.
func (v *Validator) Validate(raw RawSubmission, file *AvatarFile) (*Request, error) {
	if strings.TrimSpace(raw.Handle) == "" {
		return nil, domain.NewInvalidInput(domain.KindMissingField, "pseudo")
	}
	if raw.Lat == "" {
		return nil, domain.NewInvalidInput(domain.KindMissingField, "lat")
	}
	if raw.Lng == "" {
		return nil, domain.NewInvalidInput(domain.KindMissingField, "lng")
	}
	if raw.AnonRadius == "" {
		return nil, domain.NewInvalidInput(domain.KindMissingField, "anon_radius")
	}
	if file == nil {
		return nil, domain.NewInvalidInput(domain.KindMissingField, "avatar")
	}

	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return nil, domain.NewInvalidInput(domain.KindUnparseableCoordinate, "lat")
	}
	lng, err := strconv.ParseFloat(raw.Lng, 64)
	if err != nil {
		return nil, domain.NewInvalidInput(domain.KindUnparseableCoordinate, "lng")
	}
	if !(geo.Point{Lat: lat, Lng: lng}).Valid() {
		field := "lat"
		if lat >= -90 && lat <= 90 {
			field = "lng"
		}
		return nil, domain.NewInvalidInput(domain.KindUnparseableCoordinate, field)
	}
	radius, err := strconv.Atoi(raw.AnonRadius)
	if err != nil || !domain.ValidAnonRadius(radius) {
		return nil, domain.NewInvalidInput(domain.KindBadRadius, "anon_radius")
	}

	req := &Request{
		Handle:      strings.TrimSpace(raw.Handle),
		Lat:         lat,
		Lng:         lng,
		AnonRadiusM: radius,
	}
	if raw.Description != "" {
		desc := raw.Description
		req.Description = &desc
	}

	if err := v.validate.Struct(req); err != nil {
		return nil, mapStructError(err)
	}

	if file.Size > MaxAvatarBytes {
		return nil, domain.NewInvalidInput(domain.KindFileTooLarge, "avatar")
	}
	if !allowedAvatarTypes[file.ContentType] {
		return nil, domain.NewInvalidInput(domain.KindBadFileType, "avatar")
	}

	return req, nil
}

func mapStructError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].StructField() {
		case "Handle":
			return domain.NewInvalidInput(domain.KindMissingField, "pseudo")
		case "Description":
			return domain.NewInvalidInput(domain.KindDescriptionTooLong, "description")
		}
	}
	return err
}
