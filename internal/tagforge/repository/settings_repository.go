package repository

import (
	"context"

	"github.com/jimyag/tagforge/internal/tagforge/repository/model"
	"gorm.io/gorm"
)

// SettingsRepository 全局设置仓库接口
type SettingsRepository interface {
	Get(ctx context.Context, workspace string) (*model.GlobalSettings, error)
	Save(ctx context.Context, settings *model.GlobalSettings) error
	Delete(ctx context.Context, workspace string) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建全局设置仓库
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get 获取工作区设置，不存在时返回 gorm.ErrRecordNotFound
func (r *settingsRepository) Get(ctx context.Context, workspace string) (*model.GlobalSettings, error) {
	var settings model.GlobalSettings
	if err := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save 创建或更新工作区设置
func (r *settingsRepository) Save(ctx context.Context, settings *model.GlobalSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// Delete 删除工作区设置
func (r *settingsRepository) Delete(ctx context.Context, workspace string) error {
	return r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Delete(&model.GlobalSettings{}).Error
}
