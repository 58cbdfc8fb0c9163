package services

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

func validRequest() types.ReadingRequest {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-palm-photo-bytes"))
	return types.ReadingRequest{
		BirthDate:  "1990-05-15",
		BirthTime:  "08:30",
		BirthPlace: "Mumbai, India",
		PalmImage:  "data:image/jpeg;base64," + payload,
	}
}

func TestValidateReadingRequest_Valid(t *testing.T) {
	img, err := ValidateReadingRequest(validRequest())
	if err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if img.MIMEType != "image/jpeg" {
		t.Fatalf("unexpected mime type: %q", img.MIMEType)
	}
	if string(img.Data) != "fake-palm-photo-bytes" {
		t.Fatalf("image bytes were not decoded")
	}
}

func TestValidateReadingRequest_NamesOffendingField(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*types.ReadingRequest)
		field   string
	}{
		{"missing birth date", func(r *types.ReadingRequest) { r.BirthDate = "" }, "birthDate"},
		{"unparseable birth date", func(r *types.ReadingRequest) { r.BirthDate = "15-05-1990" }, "birthDate"},
		{"missing birth time", func(r *types.ReadingRequest) { r.BirthTime = "" }, "birthTime"},
		{"12-hour birth time", func(r *types.ReadingRequest) { r.BirthTime = "8:30 AM" }, "birthTime"},
		{"out-of-range hour", func(r *types.ReadingRequest) { r.BirthTime = "24:00" }, "birthTime"},
		{"missing birth place", func(r *types.ReadingRequest) { r.BirthPlace = "  " }, "birthPlace"},
		{"missing palm image", func(r *types.ReadingRequest) { r.PalmImage = "" }, "palmImage"},
		{"not a data uri", func(r *types.ReadingRequest) { r.PalmImage = "https://example.com/palm.jpg" }, "palmImage"},
		{"unsupported mime", func(r *types.ReadingRequest) {
			r.PalmImage = "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("x"))
		}, "palmImage"},
		{"bad base64", func(r *types.ReadingRequest) { r.PalmImage = "data:image/png;base64,!!!not-base64!!!" }, "palmImage"},
		{"empty payload", func(r *types.ReadingRequest) { r.PalmImage = "data:image/png;base64," }, "palmImage"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := ValidateReadingRequest(req)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var vErr *apperr.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if vErr.Field != tc.field {
				t.Fatalf("unexpected field: got=%q want=%q", vErr.Field, tc.field)
			}
		})
	}
}

func TestValidateReadingRequest_AcceptedMIMETypes(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("img"))
	for _, mime := range []string{"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif"} {
		req := validRequest()
		req.PalmImage = "data:" + mime + ";base64," + payload
		img, err := ValidateReadingRequest(req)
		if err != nil {
			t.Fatalf("mime %s rejected: %v", mime, err)
		}
		if img.MIMEType != strings.ToLower(mime) {
			t.Fatalf("unexpected mime: %q", img.MIMEType)
		}
	}
}
