package implementation

import (
	"context"
	"errors"

	"book-companion-be/internal/model"
	"book-companion-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) contract.SettingRepository {
	return &SettingRepositoryImpl{db: db}
}

func (r *SettingRepositoryImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var m model.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Value, true, nil
}

func (r *SettingRepositoryImpl) GetAll(ctx context.Context) (map[string]string, error) {
	var models []model.Setting
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	settings := make(map[string]string, len(models))
	for _, m := range models {
		settings[m.Key] = m.Value
	}
	return settings, nil
}

func (r *SettingRepositoryImpl) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model.Setting{Key: key, Value: value}).Error
}
