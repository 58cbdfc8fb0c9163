package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

type HoroscopeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, horoscope *types.Horoscope) (*types.Horoscope, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*types.Horoscope, error)
}

type horoscopeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHoroscopeRepo(db *gorm.DB, baseLog *logger.Logger) HoroscopeRepo {
	return &horoscopeRepo{db: db, log: baseLog.With("repo", "HoroscopeRepo")}
}

func (hr *horoscopeRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return hr.db
}

func (hr *horoscopeRepo) Create(ctx context.Context, tx *gorm.DB, horoscope *types.Horoscope) (*types.Horoscope, error) {
	if horoscope.ID == uuid.Nil {
		horoscope.ID = uuid.New()
	}
	if horoscope.CreatedAt.IsZero() {
		horoscope.CreatedAt = time.Now().UTC()
	}
	if err := hr.conn(tx).WithContext(ctx).Create(horoscope).Error; err != nil {
		return nil, &apperr.PersistenceError{Op: "create horoscope", Err: err}
	}
	return horoscope, nil
}

func (hr *horoscopeRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*types.Horoscope, error) {
	results := []*types.Horoscope{}
	q := hr.conn(tx).WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, &apperr.PersistenceError{Op: "list horoscopes", Err: err}
	}
	return results, nil
}
