package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

// TagServiceInterface 定义标签服务的接口
type TagServiceInterface interface {
	ListTags(ctx context.Context, workspace string) ([]entity.Tag, error)
	AddTag(ctx context.Context, workspace string, req *entity.AddTagRequest) (*entity.TagResponse, error)
	UpdateTag(ctx context.Context, workspace string, req *entity.UpdateTagRequest) (*entity.TagResponse, error)
	RemoveTag(ctx context.Context, workspace, tagID string) error
	ToggleVariable(ctx context.Context, workspace, tagID string) (*entity.ToggleVariableResponse, error)
	ReorderTags(ctx context.Context, workspace string, req *entity.ReorderTagsRequest) ([]entity.Tag, error)
	ApplyBasePreset(ctx context.Context, workspace string) ([]entity.Tag, error)
	Clear(ctx context.Context, workspace string) error
}

// AddTagArgs 添加标签参数
type AddTagArgs struct {
	WorkspaceArgs
	entity.AddTagRequest
}

// UpdateTagArgs 编辑标签参数
type UpdateTagArgs struct {
	TagArgs
	Tag entity.Tag `json:"tag"`
}

// ReorderTagsArgs 标签排序参数
type ReorderTagsArgs struct {
	WorkspaceArgs
	entity.ReorderTagsRequest
}

type Tag struct {
	tagService TagServiceInterface
}

func NewTag(tagService TagServiceInterface) *Tag {
	return &Tag{
		tagService: tagService,
	}
}

func (t *Tag) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", ginx.Adapt5(t.ListTags))
	router.POST("/tags", ginx.Adapt5(t.AddTag))
	router.POST("/tags/reorder", ginx.Adapt5(t.ReorderTags))
	router.PUT("/tags/:tag_id", ginx.Adapt5(t.UpdateTag))
	router.DELETE("/tags/:tag_id", ginx.Adapt4(t.RemoveTag))
	router.POST("/tags/:tag_id/toggle-variable", ginx.Adapt5(t.ToggleVariable))
	router.POST("/preset", ginx.Adapt5(t.ApplyBasePreset))
	router.POST("/clear", ginx.Adapt4(t.Clear))
}

func (t *Tag) ListTags(ctx *gin.Context, args *WorkspaceArgs) ([]entity.Tag, error) {
	tags, err := t.tagService.ListTags(ctx, args.Workspace)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("workspace", args.Workspace).Msg("Failed to list tags")
		return nil, err
	}
	return tags, nil
}

func (t *Tag) AddTag(ctx *gin.Context, args *AddTagArgs) (*entity.TagResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("type", string(args.Type)).
		Bool("is_variable", args.IsVariable).
		Msg("AddTag called")

	resp, err := t.tagService.AddTag(ctx, args.Workspace, &args.AddTagRequest)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to add tag")
		return nil, err
	}

	logger.Info().
		Str("tag_id", resp.Tag.ID).
		Int("values", len(resp.Values)).
		Msg("Tag added successfully")
	return resp, nil
}

func (t *Tag) UpdateTag(ctx *gin.Context, args *UpdateTagArgs) (*entity.TagResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("tag_id", args.TagID).
		Msg("UpdateTag called")

	resp, err := t.tagService.UpdateTag(ctx, args.Workspace, &entity.UpdateTagRequest{
		TagID: args.TagID,
		Tag:   args.Tag,
	})
	if err != nil {
		logger.Warn().Err(err).Str("tag_id", args.TagID).Msg("Failed to update tag")
		return nil, err
	}

	logger.Info().Str("tag_id", args.TagID).Msg("Tag updated successfully")
	return resp, nil
}

func (t *Tag) RemoveTag(ctx *gin.Context, args *TagArgs) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("tag_id", args.TagID).
		Msg("RemoveTag called")

	if err := t.tagService.RemoveTag(ctx, args.Workspace, args.TagID); err != nil {
		logger.Warn().Err(err).Str("tag_id", args.TagID).Msg("Failed to remove tag")
		return err
	}

	logger.Info().Str("tag_id", args.TagID).Msg("Tag removed successfully")
	return nil
}

func (t *Tag) ToggleVariable(ctx *gin.Context, args *TagArgs) (*entity.ToggleVariableResponse, error) {
	resp, err := t.tagService.ToggleVariable(ctx, args.Workspace, args.TagID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("tag_id", args.TagID).Msg("Failed to toggle variable")
		return nil, err
	}
	return resp, nil
}

func (t *Tag) ReorderTags(ctx *gin.Context, args *ReorderTagsArgs) ([]entity.Tag, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("active_id", args.ActiveID).
		Str("over_id", args.OverID).
		Msg("ReorderTags called")

	tags, err := t.tagService.ReorderTags(ctx, args.Workspace, &args.ReorderTagsRequest)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to reorder tags")
		return nil, err
	}
	return tags, nil
}

func (t *Tag) ApplyBasePreset(ctx *gin.Context, args *WorkspaceArgs) ([]entity.Tag, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", args.Workspace).Msg("ApplyBasePreset called")

	tags, err := t.tagService.ApplyBasePreset(ctx, args.Workspace)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to apply base preset")
		return nil, err
	}

	logger.Info().Int("count", len(tags)).Msg("Base preset applied successfully")
	return tags, nil
}

func (t *Tag) Clear(ctx *gin.Context, args *WorkspaceArgs) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", args.Workspace).Msg("Clear called")

	if err := t.tagService.Clear(ctx, args.Workspace); err != nil {
		logger.Error().Err(err).Msg("Failed to clear workspace")
		return err
	}

	logger.Info().Str("workspace", args.Workspace).Msg("Workspace cleared successfully")
	return nil
}
