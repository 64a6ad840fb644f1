package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/repository"
	"github.com/jimyag/tagforge/internal/tagforge/repository/model"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/rs/zerolog"
)

// VariableService 变量值服务
type VariableService struct {
	repo *repository.Repository
}

// NewVariableService 创建变量值服务
func NewVariableService(repo *repository.Repository) *VariableService {
	return &VariableService{repo: repo}
}

// getTag 读取标签，不存在时返回 ErrTagNotFound
func getTag(ctx context.Context, repo *repository.Repository, workspace, tagID string) (*entity.Tag, error) {
	m, err := repo.Tags().Get(ctx, workspace, tagID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.WithMessage(apierror.ErrTagNotFound, "tag %s does not exist", tagID)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tagModelToEntity(m)
}

// getValue 读取变量值记录，不存在时返回 ErrValueNotFound
func getValue(ctx context.Context, repo *repository.Repository, workspace, valueID string) (*model.VariableValue, error) {
	m, err := repo.Values().Get(ctx, workspace, valueID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.WithMessage(apierror.ErrValueNotFound, "value %s does not exist", valueID)
		}
		return nil, fmt.Errorf("get value: %w", err)
	}
	return m, nil
}

// ListValues 按顺序列出标签的变量值
func (s *VariableService) ListValues(ctx context.Context, workspace, tagID string) ([]entity.VariableValue, error) {
	if _, err := getTag(ctx, s.repo, workspace, tagID); err != nil {
		return nil, asAPIError(err, "get tag")
	}
	models, err := s.repo.Values().ListByTag(ctx, workspace, tagID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("tag_id", tagID).Msg("Failed to list values")
		return nil, apierror.WrapError(apierror.ErrInternalError, "list values", err)
	}
	values, err := valueModelsToEntities(models)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "convert values", err)
	}
	return values, nil
}

// AddValue 为变量标签添加一个值
func (s *VariableService) AddValue(ctx context.Context, workspace, tagID string, req *entity.AddValueRequest) (*entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Str("tag_id", tagID).Msg("AddValue called")

	var created entity.VariableValue
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tag, err := getTag(ctx, tx, workspace, tagID)
		if err != nil {
			return err
		}
		v, err := tagset.NewValue(*tag, *req)
		if err != nil {
			return err
		}
		values, err := createValues(ctx, tx, workspace, []entity.VariableValue{v})
		if err != nil {
			return err
		}
		created = values[0]
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("tag_id", tagID).Msg("Failed to add value")
		return nil, asAPIError(err, "add value")
	}

	logger.Info().Str("tag_id", tagID).Str("value_id", created.ID).Msg("Value added successfully")
	return &created, nil
}

// UpdateValue 更新变量值
func (s *VariableService) UpdateValue(ctx context.Context, workspace, valueID string, req *entity.UpdateValueRequest) (*entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Str("value_id", valueID).Msg("UpdateValue called")

	var updated *entity.VariableValue
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		m, err := getValue(ctx, tx, workspace, valueID)
		if err != nil {
			return err
		}
		tag, err := getTag(ctx, tx, workspace, m.TagID)
		if err != nil {
			return err
		}
		current, err := valueModelToEntity(m)
		if err != nil {
			return err
		}

		next, err := tagset.UpdateValue(*tag, *current, *req)
		if err != nil {
			return err
		}
		m.Value = next.Value
		m.UUID = next.UUID
		m.Avatar = next.Avatar
		m.Weight = next.Weight
		m.UpdatedAt = time.Now()
		if err := tx.Values().Update(ctx, m); err != nil {
			return fmt.Errorf("update value: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("value_id", valueID).Msg("Failed to update value")
		return nil, asAPIError(err, "update value")
	}
	return updated, nil
}

// RemoveValue 删除变量值
func (s *VariableService) RemoveValue(ctx context.Context, workspace, valueID string) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Str("value_id", valueID).Msg("RemoveValue called")

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		m, err := getValue(ctx, tx, workspace, valueID)
		if err != nil {
			return err
		}
		tag, err := getTag(ctx, tx, workspace, m.TagID)
		if err != nil {
			return err
		}
		models, err := tx.Values().ListByTag(ctx, workspace, m.TagID)
		if err != nil {
			return fmt.Errorf("list values: %w", err)
		}
		values, err := valueModelsToEntities(models)
		if err != nil {
			return err
		}
		if err := tagset.CheckRemoveValue(*tag, values); err != nil {
			return err
		}
		return tx.Values().Delete(ctx, workspace, valueID)
	})
	if err != nil {
		logger.Warn().Err(err).Str("value_id", valueID).Msg("Failed to remove value")
		return asAPIError(err, "remove value")
	}

	logger.Info().Str("value_id", valueID).Msg("Value removed successfully")
	return nil
}

// DuplicateValue 复制变量值并插入到原值之后
func (s *VariableService) DuplicateValue(ctx context.Context, workspace, valueID string) (*entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Str("value_id", valueID).Msg("DuplicateValue called")

	var dup entity.VariableValue
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		m, err := getValue(ctx, tx, workspace, valueID)
		if err != nil {
			return err
		}
		tag, err := getTag(ctx, tx, workspace, m.TagID)
		if err != nil {
			return err
		}
		if err := tagset.CheckDuplicateValue(*tag); err != nil {
			return err
		}

		source, err := valueModelToEntity(m)
		if err != nil {
			return err
		}
		dup = *source
		if dup.ID, err = newValueID(); err != nil {
			return err
		}

		values, err := loadValues(ctx, tx, workspace)
		if err != nil {
			return err
		}
		if _, err := createValues(ctx, tx, workspace, []entity.VariableValue{dup}); err != nil {
			return err
		}
		return tx.Values().SetPositions(ctx, workspace, valueIDs(tagset.InsertAfter(values, valueID, dup)))
	})
	if err != nil {
		logger.Warn().Err(err).Str("value_id", valueID).Msg("Failed to duplicate value")
		return nil, asAPIError(err, "duplicate value")
	}

	logger.Info().Str("value_id", valueID).Str("new_value_id", dup.ID).Msg("Value duplicated successfully")
	return &dup, nil
}

// ReorderValues 按给定顺序排列标签的变量值
func (s *VariableService) ReorderValues(ctx context.Context, workspace, tagID string, req *entity.ReorderValuesRequest) ([]entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("workspace", workspace).Str("tag_id", tagID).Strs("value_ids", req.ValueIDs).Msg("ReorderValues called")

	var reordered []entity.VariableValue
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tag, err := getTag(ctx, tx, workspace, tagID)
		if err != nil {
			return err
		}
		if err := tagset.CheckReorderValues(*tag); err != nil {
			return err
		}
		values, err := loadValues(ctx, tx, workspace)
		if err != nil {
			return err
		}
		out, err := tagset.ReorderValues(values, tagID, req.ValueIDs)
		if err != nil {
			return err
		}
		if err := tx.Values().SetPositions(ctx, workspace, valueIDs(out)); err != nil {
			return err
		}
		reordered = tagset.ValuesOf(out, tagID)
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("tag_id", tagID).Msg("Failed to reorder values")
		return nil, asAPIError(err, "reorder values")
	}
	return reordered, nil
}

func valueIDs(values []entity.VariableValue) []string {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		ids = append(ids, v.ID)
	}
	return ids
}
