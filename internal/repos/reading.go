package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

type ReadingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reading *types.Reading) (*types.Reading, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Reading, error)
	GetByOwnerAndID(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (*types.Reading, error)
	Delete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) error
	Rename(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, newName string) error
	SaveTranslation(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, lang string, sections map[string]string) error
}

type readingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingRepo(db *gorm.DB, baseLog *logger.Logger) ReadingRepo {
	return &readingRepo{db: db, log: baseLog.With("repo", "ReadingRepo")}
}

func (rr *readingRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return rr.db
}

func (rr *readingRepo) Create(ctx context.Context, tx *gorm.DB, reading *types.Reading) (*types.Reading, error) {
	if reading.ID == uuid.Nil {
		reading.ID = uuid.New()
	}
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now().UTC()
	}
	if err := rr.conn(tx).WithContext(ctx).Create(reading).Error; err != nil {
		return nil, &apperr.PersistenceError{Op: "create reading", Err: err}
	}
	return reading, nil
}

func (rr *readingRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Reading, error) {
	results := []*types.Reading{}
	if err := rr.conn(tx).WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, &apperr.PersistenceError{Op: "list readings", Err: err}
	}
	return results, nil
}

func (rr *readingRepo) GetByOwnerAndID(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (*types.Reading, error) {
	var result types.Reading
	err := rr.conn(tx).WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "reading"}
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "get reading", Err: err}
	}
	return &result, nil
}

func (rr *readingRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) error {
	res := rr.conn(tx).WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&types.Reading{})
	if res.Error != nil {
		return &apperr.PersistenceError{Op: "delete reading", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Resource: "reading"}
	}
	return nil
}

func (rr *readingRepo) Rename(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, newName string) error {
	res := rr.conn(tx).WithContext(ctx).
		Model(&types.Reading{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("name", newName)
	if res.Error != nil {
		return &apperr.PersistenceError{Op: "rename reading", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Resource: "reading"}
	}
	return nil
}

func (rr *readingRepo) SaveTranslation(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, lang string, sections map[string]string) error {
	reading, err := rr.GetByOwnerAndID(ctx, tx, ownerID, id)
	if err != nil {
		return err
	}
	if reading.Translations == nil {
		reading.Translations = datatypes.JSONMap{}
	}
	translated := make(map[string]interface{}, len(sections))
	for k, v := range sections {
		translated[k] = v
	}
	reading.Translations[lang] = translated
	res := rr.conn(tx).WithContext(ctx).
		Model(&types.Reading{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("translations", reading.Translations)
	if res.Error != nil {
		return &apperr.PersistenceError{Op: "save translation", Err: res.Error}
	}
	return nil
}
