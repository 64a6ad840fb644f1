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

// exportDateLayout 与浏览器 toISOString 的输出一致
const exportDateLayout = "2006-01-02T15:04:05.000Z"

// loadTags 按顺序读取工作区的所有标签
func loadTags(ctx context.Context, repo *repository.Repository, workspace string) ([]entity.Tag, error) {
	models, err := repo.Tags().List(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	tags := make([]entity.Tag, 0, len(models))
	for _, m := range models {
		tag, err := tagModelToEntity(m)
		if err != nil {
			return nil, fmt.Errorf("convert tag %s: %w", m.TagID, err)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// loadValues 按顺序读取工作区的所有变量值
func loadValues(ctx context.Context, repo *repository.Repository, workspace string) ([]entity.VariableValue, error) {
	models, err := repo.Values().List(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("list variable values: %w", err)
	}
	return valueModelsToEntities(models)
}

// loadSettings 读取工作区设置，不存在时返回默认值
func loadSettings(ctx context.Context, repo *repository.Repository, workspace string) (entity.GlobalSettings, error) {
	m, err := repo.Settings().Get(ctx, workspace)
	if err != nil {
		if repository.IsNotFound(err) {
			return entity.DefaultGlobalSettings(), nil
		}
		return entity.GlobalSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return settingsModelToEntity(m), nil
}

// createTags 从 position 开始依次写入标签
func createTags(ctx context.Context, repo *repository.Repository, workspace string, position int, tags []entity.Tag) error {
	for i := range tags {
		m, err := tagEntityToModel(workspace, position+i, &tags[i])
		if err != nil {
			return fmt.Errorf("convert tag %s: %w", tags[i].ID, err)
		}
		if err := repo.Tags().Create(ctx, m); err != nil {
			return fmt.Errorf("create tag %s: %w", tags[i].ID, err)
		}
	}
	return nil
}

// createValues 从当前末尾位置开始依次写入变量值，未分配 ID 的变量值会生成新 ID
func createValues(ctx context.Context, repo *repository.Repository, workspace string, values []entity.VariableValue) ([]entity.VariableValue, error) {
	if len(values) == 0 {
		return nil, nil
	}
	position, err := repo.Values().NextPosition(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("next value position: %w", err)
	}

	out := make([]entity.VariableValue, 0, len(values))
	for i, v := range values {
		if v.ID == "" {
			if v.ID, err = newValueID(); err != nil {
				return nil, err
			}
		}
		m, err := valueEntityToModel(workspace, position+i, &v)
		if err != nil {
			return nil, fmt.Errorf("convert value %s: %w", v.ID, err)
		}
		if err := repo.Values().Create(ctx, m); err != nil {
			return nil, fmt.Errorf("create value %s: %w", v.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// WorkspaceService 工作区服务，对应浏览器本地存储中的三组数据
type WorkspaceService struct {
	repo *repository.Repository
	now  func() time.Time
}

// NewWorkspaceService 创建工作区服务
func NewWorkspaceService(repo *repository.Repository) *WorkspaceService {
	return &WorkspaceService{
		repo: repo,
		now:  time.Now,
	}
}

// GetState 返回工作区的标签、变量值和设置
func (s *WorkspaceService) GetState(ctx context.Context, workspace string) (*entity.WorkspaceState, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("workspace", workspace).Msg("GetState called")

	state, err := loadState(ctx, s.repo, workspace)
	if err != nil {
		logger.Error().Err(err).Str("workspace", workspace).Msg("Failed to load workspace state")
		return nil, apierror.WrapError(apierror.ErrInternalError, "load workspace state", err)
	}
	return state, nil
}

// loadState 读取工作区完整状态
func loadState(ctx context.Context, repo *repository.Repository, workspace string) (*entity.WorkspaceState, error) {
	tags, err := loadTags(ctx, repo, workspace)
	if err != nil {
		return nil, err
	}
	values, err := loadValues(ctx, repo, workspace)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, repo, workspace)
	if err != nil {
		return nil, err
	}
	return &entity.WorkspaceState{
		Tags:           tags,
		VariableValues: values,
		GlobalSettings: settings,
	}, nil
}

// Export 导出配置文件
func (s *WorkspaceService) Export(ctx context.Context, workspace string) (*entity.ConfigSnapshot, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Msg("Export called")

	state, err := s.GetState(ctx, workspace)
	if err != nil {
		return nil, err
	}
	snapshot := tagset.Snapshot(*state, s.now().UTC().Format(exportDateLayout))

	logger.Info().
		Str("workspace", workspace).
		Int("tags", len(snapshot.Tags)).
		Int("values", len(snapshot.VariableValues)).
		Msg("Config exported successfully")
	return &snapshot, nil
}

// ExportFilename 返回导出文件名
func (s *WorkspaceService) ExportFilename() string {
	return fmt.Sprintf("tags-config-%s.json", s.now().UTC().Format(time.DateOnly))
}

// Import 导入配置文件，替换工作区的标签和变量值
// 设置只合并文件中有效的字段
func (s *WorkspaceService) Import(ctx context.Context, workspace string, data []byte) (*entity.ImportResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Int("size", len(data)).Msg("Import called")

	parsed, err := tagset.ParseSnapshot(data)
	if err != nil {
		logger.Warn().Err(err).Str("workspace", workspace).Msg("Failed to parse config file")
		return nil, err
	}

	var state *entity.WorkspaceState
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := clearWorkspace(ctx, tx, workspace); err != nil {
			return err
		}
		if err := createTags(ctx, tx, workspace, 0, parsed.Tags); err != nil {
			return err
		}
		if _, err := createValues(ctx, tx, workspace, parsed.VariableValues); err != nil {
			return err
		}

		prev, err := loadSettings(ctx, tx, workspace)
		if err != nil {
			return err
		}
		if err := tx.Settings().Save(ctx, settingsEntityToModel(workspace, parsed.Settings.Merge(prev))); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}

		state, err = loadState(ctx, tx, workspace)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Str("workspace", workspace).Msg("Failed to import config")
		return nil, apierror.WrapError(apierror.ErrInternalError, "import config", err)
	}

	logger.Info().
		Str("workspace", workspace).
		Int("tags", len(parsed.Tags)).
		Int("values", len(parsed.VariableValues)).
		Int("dropped_tags", parsed.DroppedTags).
		Int("dropped_values", parsed.DroppedValues).
		Msg("Config imported successfully")

	return &entity.ImportResult{
		State:         state,
		DroppedTags:   parsed.DroppedTags,
		DroppedValues: parsed.DroppedValues,
	}, nil
}

// clearWorkspace 删除工作区的标签和变量值，设置保持不变
func clearWorkspace(ctx context.Context, repo *repository.Repository, workspace string) error {
	if err := repo.Values().DeleteByWorkspace(ctx, workspace); err != nil {
		return fmt.Errorf("delete variable values: %w", err)
	}
	if err := repo.Tags().DeleteByWorkspace(ctx, workspace); err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}
	return nil
}
