package services

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

// PalmImage is a decoded palm photo ready to attach to a generation call.
type PalmImage struct {
	MIMEType string
	Data     []byte
}

var birthTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var supportedImageMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// ValidateReadingRequest checks every required field of a reading request
// and decodes the palm image. It fails on the first offending field and
// has no side effects.
func ValidateReadingRequest(req types.ReadingRequest) (*PalmImage, error) {
	if strings.TrimSpace(req.BirthDate) == "" {
		return nil, &apperr.ValidationError{Field: "birthDate", Reason: "required"}
	}
	if _, err := time.Parse("2006-01-02", req.BirthDate); err != nil {
		return nil, &apperr.ValidationError{Field: "birthDate", Reason: "must be a date in YYYY-MM-DD format"}
	}
	if strings.TrimSpace(req.BirthTime) == "" {
		return nil, &apperr.ValidationError{Field: "birthTime", Reason: "required"}
	}
	if !birthTimePattern.MatchString(req.BirthTime) {
		return nil, &apperr.ValidationError{Field: "birthTime", Reason: "must be a 24-hour time in HH:MM format"}
	}
	if strings.TrimSpace(req.BirthPlace) == "" {
		return nil, &apperr.ValidationError{Field: "birthPlace", Reason: "required"}
	}
	if strings.TrimSpace(req.PalmImage) == "" {
		return nil, &apperr.ValidationError{Field: "palmImage", Reason: "required"}
	}
	img, err := parseDataURI(req.PalmImage)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// parseDataURI decodes a "data:<mimetype>;base64,<data>" payload.
func parseDataURI(uri string) (*PalmImage, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, &apperr.ValidationError{Field: "palmImage", Reason: "must be a data URI"}
	}
	mimeType, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, &apperr.ValidationError{Field: "palmImage", Reason: "must be base64 encoded"}
	}
	if !supportedImageMIME[strings.ToLower(mimeType)] {
		return nil, &apperr.ValidationError{Field: "palmImage", Reason: "unsupported image type " + mimeType}
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "palmImage", Reason: "image payload is not valid base64"}
	}
	if len(data) == 0 {
		return nil, &apperr.ValidationError{Field: "palmImage", Reason: "image payload is empty"}
	}
	return &PalmImage{MIMEType: strings.ToLower(mimeType), Data: data}, nil
}
