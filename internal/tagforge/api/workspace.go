package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

// MaxImportSize 导入文件大小上限
const MaxImportSize = 10 << 20

// WorkspaceServiceInterface 定义工作区服务的接口
type WorkspaceServiceInterface interface {
	GetState(ctx context.Context, workspace string) (*entity.WorkspaceState, error)
	Export(ctx context.Context, workspace string) (*entity.ConfigSnapshot, error)
	ExportFilename() string
	Import(ctx context.Context, workspace string, data []byte) (*entity.ImportResult, error)
}

// SettingsServiceInterface 定义设置服务的接口
type SettingsServiceInterface interface {
	GetSettings(ctx context.Context, workspace string) (*entity.GlobalSettings, error)
	UpdateSettings(ctx context.Context, workspace string, req *entity.UpdateSettingsRequest) (*entity.GlobalSettings, error)
}

// UpdateSettingsArgs 更新设置参数
type UpdateSettingsArgs struct {
	WorkspaceArgs
	entity.UpdateSettingsRequest
}

type Workspace struct {
	workspaceService WorkspaceServiceInterface
	settingsService  SettingsServiceInterface
}

func NewWorkspace(workspaceService WorkspaceServiceInterface, settingsService SettingsServiceInterface) *Workspace {
	return &Workspace{
		workspaceService: workspaceService,
		settingsService:  settingsService,
	}
}

func (w *Workspace) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/state", ginx.Adapt5(w.GetState))
	router.GET("/settings", ginx.Adapt5(w.GetSettings))
	router.PUT("/settings", ginx.Adapt5(w.UpdateSettings))
	router.GET("/config/export", ginx.Adapt5(w.Export))
	router.POST("/config/import", ginx.Adapt3(w.Import))
}

func (w *Workspace) GetState(ctx *gin.Context, args *WorkspaceArgs) (*entity.WorkspaceState, error) {
	state, err := w.workspaceService.GetState(ctx, args.Workspace)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("workspace", args.Workspace).Msg("Failed to get state")
		return nil, err
	}
	return state, nil
}

func (w *Workspace) GetSettings(ctx *gin.Context, args *WorkspaceArgs) (*entity.GlobalSettings, error) {
	settings, err := w.settingsService.GetSettings(ctx, args.Workspace)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("workspace", args.Workspace).Msg("Failed to get settings")
		return nil, err
	}
	return settings, nil
}

func (w *Workspace) UpdateSettings(ctx *gin.Context, args *UpdateSettingsArgs) (*entity.GlobalSettings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", args.Workspace).Msg("UpdateSettings called")

	settings, err := w.settingsService.UpdateSettings(ctx, args.Workspace, &args.UpdateSettingsRequest)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to update settings")
		return nil, err
	}

	logger.Info().Int("max_threads", settings.MaxThreads).Msg("Settings updated successfully")
	return settings, nil
}

// Export 以附件形式下载工作区配置
func (w *Workspace) Export(ctx *gin.Context, args *WorkspaceArgs) (*entity.ConfigSnapshot, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", args.Workspace).Msg("Export called")

	snapshot, err := w.workspaceService.Export(ctx, args.Workspace)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to export config")
		return nil, err
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", w.workspaceService.ExportFilename()))
	logger.Info().
		Int("tags", len(snapshot.Tags)).
		Int("values", len(snapshot.VariableValues)).
		Msg("Config exported successfully")
	return snapshot, nil
}

// Import 导入配置文件，请求体为 JSON，或 multipart 表单中的 file 字段
func (w *Workspace) Import(ctx *gin.Context) (*entity.ImportResult, error) {
	logger := zerolog.Ctx(ctx)
	workspace := ctx.Param("ws")
	logger.Info().Str("workspace", workspace).Msg("Import called")

	data, err := readImport(ctx)
	if err != nil {
		return nil, err
	}

	result, err := w.workspaceService.Import(ctx, workspace, data)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to import config")
		return nil, err
	}

	logger.Info().
		Int("tags", len(result.State.Tags)).
		Int("dropped_tags", result.DroppedTags).
		Int("dropped_values", result.DroppedValues).
		Msg("Config imported successfully")
	return result, nil
}

func readImport(ctx *gin.Context) ([]byte, error) {
	var r io.Reader
	if strings.HasPrefix(ctx.ContentType(), binding.MIMEMultipartPOSTForm) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInvalidParameter, "missing file field", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInvalidParameter, "open uploaded file", err)
		}
		defer f.Close()
		r = f
	} else {
		r = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, MaxImportSize)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInvalidParameter, "read config file", err)
	}
	if len(data) > MaxImportSize {
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter, "config file exceeds %d bytes", MaxImportSize)
	}
	return data, nil
}
