package service

import (
	"context"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/repository"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/rs/zerolog"
)

// SettingsService 全局设置服务
type SettingsService struct {
	repo *repository.Repository
}

// NewSettingsService 创建全局设置服务
func NewSettingsService(repo *repository.Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetSettings 返回工作区设置，未保存过时返回默认值
func (s *SettingsService) GetSettings(ctx context.Context, workspace string) (*entity.GlobalSettings, error) {
	settings, err := loadSettings(ctx, s.repo, workspace)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("workspace", workspace).Msg("Failed to get settings")
		return nil, apierror.WrapError(apierror.ErrInternalError, "get settings", err)
	}
	return &settings, nil
}

// UpdateSettings 更新设置，未提供的字段保持不变
func (s *SettingsService) UpdateSettings(ctx context.Context, workspace string, req *entity.UpdateSettingsRequest) (*entity.GlobalSettings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Msg("UpdateSettings called")

	if req.MaxThreads != nil && (*req.MaxThreads < entity.MinMaxThreads || *req.MaxThreads > entity.MaxMaxThreads) {
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter,
			"maxThreads must be between %d and %d", entity.MinMaxThreads, entity.MaxMaxThreads)
	}

	var settings entity.GlobalSettings
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		if settings, err = loadSettings(ctx, tx, workspace); err != nil {
			return err
		}
		if req.MaxThreads != nil {
			settings.MaxThreads = *req.MaxThreads
		}
		if req.XToken != nil {
			settings.XToken = *req.XToken
		}
		return tx.Settings().Save(ctx, settingsEntityToModel(workspace, settings))
	})
	if err != nil {
		logger.Error().Err(err).Str("workspace", workspace).Msg("Failed to update settings")
		return nil, asAPIError(err, "update settings")
	}

	logger.Info().Str("workspace", workspace).Int("max_threads", settings.MaxThreads).Msg("Settings updated successfully")
	return &settings, nil
}
