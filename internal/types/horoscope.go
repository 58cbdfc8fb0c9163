package types

import (
	"time"

	"github.com/google/uuid"
)

// Horoscope is one generated daily horoscope, kept for history display.
type Horoscope struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Date       string    `gorm:"not null;index;column:date" json:"date"`
	ZodiacSign string    `gorm:"not null;column:zodiac_sign" json:"zodiac_sign"`
	Content    string    `gorm:"type:text;not null;column:content" json:"content"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Horoscope) TableName() string {
	return "horoscope"
}
