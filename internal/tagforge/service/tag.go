package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/repository"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/rs/zerolog"
)

// TagService 标签服务
type TagService struct {
	repo    *repository.Repository
	palette tagset.Palette
}

// NewTagService 创建标签服务，palette 为空时使用随机配色
func NewTagService(repo *repository.Repository, palette tagset.Palette) *TagService {
	if palette == nil {
		palette = tagset.RandomPalette{}
	}
	return &TagService{
		repo:    repo,
		palette: palette,
	}
}

// ListTags 按顺序列出标签
func (s *TagService) ListTags(ctx context.Context, workspace string) ([]entity.Tag, error) {
	tags, err := loadTags(ctx, s.repo, workspace)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("workspace", workspace).Msg("Failed to list tags")
		return nil, apierror.WrapError(apierror.ErrInternalError, "list tags", err)
	}
	return tags, nil
}

// AddTag 添加标签到末尾，变量标签同时生成初始变量值
func (s *TagService) AddTag(ctx context.Context, workspace string, req *entity.AddTagRequest) (*entity.TagResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", workspace).
		Str("type", string(req.Type)).
		Bool("is_variable", req.IsVariable).
		Msg("AddTag called")

	var resp *entity.TagResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tags, err := loadTags(ctx, tx, workspace)
		if err != nil {
			return err
		}

		id, err := newTagID()
		if err != nil {
			return err
		}
		tag, seeds, err := tagset.NewTag(id, *req, tags, s.palette)
		if err != nil {
			return err
		}

		position, err := tx.Tags().NextPosition(ctx, workspace)
		if err != nil {
			return fmt.Errorf("next tag position: %w", err)
		}
		if err := createTags(ctx, tx, workspace, position, []entity.Tag{tag}); err != nil {
			return err
		}
		values, err := createValues(ctx, tx, workspace, seeds)
		if err != nil {
			return err
		}

		resp = &entity.TagResponse{Tag: &tag, Values: values}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("workspace", workspace).Msg("Failed to add tag")
		return nil, asAPIError(err, "add tag")
	}

	logger.Info().
		Str("workspace", workspace).
		Str("tag_id", resp.Tag.ID).
		Msg("Tag added successfully")
	return resp, nil
}

// UpdateTag 保存编辑弹窗中的标签
func (s *TagService) UpdateTag(ctx context.Context, workspace string, req *entity.UpdateTagRequest) (*entity.TagResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", workspace).
		Str("tag_id", req.TagID).
		Msg("UpdateTag called")

	var resp *entity.TagResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		m, err := tx.Tags().Get(ctx, workspace, req.TagID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.WithMessage(apierror.ErrTagNotFound, "tag %s does not exist", req.TagID)
			}
			return fmt.Errorf("get tag: %w", err)
		}
		original, err := tagModelToEntity(m)
		if err != nil {
			return err
		}
		tags, err := loadTags(ctx, tx, workspace)
		if err != nil {
			return err
		}

		result, err := tagset.ApplyEdit(*original, req.Tag, tags, s.palette)
		if err != nil {
			return err
		}

		if result.DropValues {
			if err := tx.Values().DeleteByTag(ctx, workspace, original.ID); err != nil {
				return fmt.Errorf("delete values: %w", err)
			}
		}
		if _, err := createValues(ctx, tx, workspace, result.NewValues); err != nil {
			return err
		}

		if err := applyTagToModel(m, &result.Tag); err != nil {
			return err
		}
		if err := tx.Tags().Update(ctx, m); err != nil {
			return fmt.Errorf("update tag: %w", err)
		}

		valueModels, err := tx.Values().ListByTag(ctx, workspace, original.ID)
		if err != nil {
			return fmt.Errorf("list values: %w", err)
		}
		values, err := valueModelsToEntities(valueModels)
		if err != nil {
			return err
		}
		resp = &entity.TagResponse{Tag: &result.Tag, Values: values}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("tag_id", req.TagID).Msg("Failed to update tag")
		return nil, asAPIError(err, "update tag")
	}

	logger.Info().Str("tag_id", req.TagID).Msg("Tag updated successfully")
	return resp, nil
}

// RemoveTag 删除标签及其所有变量值
func (s *TagService) RemoveTag(ctx context.Context, workspace, tagID string) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Str("tag_id", tagID).Msg("RemoveTag called")

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Tags().Get(ctx, workspace, tagID); err != nil {
			if repository.IsNotFound(err) {
				return apierror.WithMessage(apierror.ErrTagNotFound, "tag %s does not exist", tagID)
			}
			return fmt.Errorf("get tag: %w", err)
		}
		if err := tx.Values().DeleteByTag(ctx, workspace, tagID); err != nil {
			return fmt.Errorf("delete values: %w", err)
		}
		if err := tx.Tags().Delete(ctx, workspace, tagID); err != nil {
			return fmt.Errorf("delete tag: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("tag_id", tagID).Msg("Failed to remove tag")
		return asAPIError(err, "remove tag")
	}

	logger.Info().Str("tag_id", tagID).Msg("Tag removed successfully")
	return nil
}

// ToggleVariable 返回切换变量状态后的标签，确认后通过 UpdateTag 保存
func (s *TagService) ToggleVariable(ctx context.Context, workspace, tagID string) (*entity.ToggleVariableResponse, error) {
	zerolog.Ctx(ctx).Debug().Str("workspace", workspace).Str("tag_id", tagID).Msg("ToggleVariable called")

	tags, err := loadTags(ctx, s.repo, workspace)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "list tags", err)
	}
	tag, _, ok := tagset.FindTag(tags, tagID)
	if !ok {
		return nil, apierror.WithMessage(apierror.ErrTagNotFound, "tag %s does not exist", tagID)
	}

	next, err := tagset.ToggleVariable(tag, tags)
	if err != nil {
		return nil, err
	}
	return &entity.ToggleVariableResponse{Tag: &next}, nil
}

// ReorderTags 应用拖拽排序结果，返回新的标签顺序
func (s *TagService) ReorderTags(ctx context.Context, workspace string, req *entity.ReorderTagsRequest) ([]entity.Tag, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("workspace", workspace).
		Str("active_id", req.ActiveID).
		Str("over_id", req.OverID).
		Msg("ReorderTags called")

	var moved []entity.Tag
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tags, err := loadTags(ctx, tx, workspace)
		if err != nil {
			return err
		}
		if moved, err = tagset.Move(tags, req.ActiveID, req.OverID); err != nil {
			return err
		}
		ids := make([]string, 0, len(moved))
		for _, tag := range moved {
			ids = append(ids, tag.ID)
		}
		return tx.Tags().SetPositions(ctx, workspace, ids)
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to reorder tags")
		return nil, asAPIError(err, "reorder tags")
	}
	return moved, nil
}

// ApplyBasePreset 用基础预设替换当前标签，清空所有变量值
func (s *TagService) ApplyBasePreset(ctx context.Context, workspace string) ([]entity.Tag, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Msg("ApplyBasePreset called")

	preset := tagset.BasePreset(s.palette)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := clearWorkspace(ctx, tx, workspace); err != nil {
			return err
		}
		for i := range preset {
			id, err := newTagID()
			if err != nil {
				return err
			}
			preset[i].ID = id
		}
		return createTags(ctx, tx, workspace, 0, preset)
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to apply base preset")
		return nil, asAPIError(err, "apply base preset")
	}

	logger.Info().Str("workspace", workspace).Int("tags", len(preset)).Msg("Base preset applied successfully")
	return preset, nil
}

// Clear 清空工作区的标签和变量值
func (s *TagService) Clear(ctx context.Context, workspace string) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Msg("Clear called")

	start := time.Now()
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return clearWorkspace(ctx, tx, workspace)
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to clear workspace")
		return asAPIError(err, "clear workspace")
	}

	logger.Info().Str("workspace", workspace).Dur("took", time.Since(start)).Msg("Workspace cleared successfully")
	return nil
}
