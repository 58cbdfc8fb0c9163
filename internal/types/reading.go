package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReadingRequest is the caller-supplied input for one reading generation.
// PalmImage is a data URI ("data:<mimetype>;base64,<data>").
type ReadingRequest struct {
	BirthDate  string `json:"birthDate"`
	BirthTime  string `json:"birthTime"`
	BirthPlace string `json:"birthPlace"`
	PalmImage  string `json:"palmImage"`
}

// Reading is one stored generation result, owned by a single user.
// Sections maps section name -> narrative text; Translations caches
// translated section maps keyed by target language.
type Reading struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID       uuid.UUID         `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Name          string            `gorm:"column:name" json:"name"`
	BirthDate     string            `gorm:"not null;column:birth_date" json:"birth_date"`
	BirthTime     string            `gorm:"not null;column:birth_time" json:"birth_time"`
	BirthPlace    string            `gorm:"not null;column:birth_place" json:"birth_place"`
	PalmImageMIME string            `gorm:"column:palm_image_mime" json:"palm_image_mime"`
	Sections      datatypes.JSONMap `gorm:"column:sections" json:"sections"`
	Translations  datatypes.JSONMap `gorm:"column:translations" json:"translations,omitempty"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updated_at"`
}

func (Reading) TableName() string {
	return "reading"
}

// SectionStrings projects the stored section map back to plain strings,
// dropping anything that is not a non-empty string.
func (r *Reading) SectionStrings() map[string]string {
	out := make(map[string]string, len(r.Sections))
	for k, v := range r.Sections {
		if s, ok := v.(string); ok && s != "" {
			out[k] = s
		}
	}
	return out
}
