package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

// VariableServiceInterface 定义变量值服务的接口
type VariableServiceInterface interface {
	ListValues(ctx context.Context, workspace, tagID string) ([]entity.VariableValue, error)
	AddValue(ctx context.Context, workspace, tagID string, req *entity.AddValueRequest) (*entity.VariableValue, error)
	UpdateValue(ctx context.Context, workspace, valueID string, req *entity.UpdateValueRequest) (*entity.VariableValue, error)
	RemoveValue(ctx context.Context, workspace, valueID string) error
	DuplicateValue(ctx context.Context, workspace, valueID string) (*entity.VariableValue, error)
	ReorderValues(ctx context.Context, workspace, tagID string, req *entity.ReorderValuesRequest) ([]entity.VariableValue, error)
}

// AddValueArgs 添加变量值参数
type AddValueArgs struct {
	TagArgs
	entity.AddValueRequest
}

// UpdateValueArgs 更新变量值参数
type UpdateValueArgs struct {
	ValueArgs
	entity.UpdateValueRequest
}

// ReorderValuesArgs 变量值排序参数
type ReorderValuesArgs struct {
	TagArgs
	entity.ReorderValuesRequest
}

type Variable struct {
	variableService VariableServiceInterface
}

func NewVariable(variableService VariableServiceInterface) *Variable {
	return &Variable{
		variableService: variableService,
	}
}

func (v *Variable) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags/:tag_id/values", ginx.Adapt5(v.ListValues))
	router.POST("/tags/:tag_id/values", ginx.Adapt5(v.AddValue))
	router.PUT("/tags/:tag_id/values/order", ginx.Adapt5(v.ReorderValues))
	router.PUT("/values/:value_id", ginx.Adapt5(v.UpdateValue))
	router.DELETE("/values/:value_id", ginx.Adapt4(v.RemoveValue))
	router.POST("/values/:value_id/duplicate", ginx.Adapt5(v.DuplicateValue))
}

func (v *Variable) ListValues(ctx *gin.Context, args *TagArgs) ([]entity.VariableValue, error) {
	values, err := v.variableService.ListValues(ctx, args.Workspace, args.TagID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("tag_id", args.TagID).Msg("Failed to list values")
		return nil, err
	}
	return values, nil
}

func (v *Variable) AddValue(ctx *gin.Context, args *AddValueArgs) (*entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("tag_id", args.TagID).
		Msg("AddValue called")

	value, err := v.variableService.AddValue(ctx, args.Workspace, args.TagID, &args.AddValueRequest)
	if err != nil {
		logger.Warn().Err(err).Str("tag_id", args.TagID).Msg("Failed to add value")
		return nil, err
	}

	logger.Info().Str("value_id", value.ID).Msg("Value added successfully")
	return value, nil
}

func (v *Variable) UpdateValue(ctx *gin.Context, args *UpdateValueArgs) (*entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("value_id", args.ValueID).
		Msg("UpdateValue called")

	value, err := v.variableService.UpdateValue(ctx, args.Workspace, args.ValueID, &args.UpdateValueRequest)
	if err != nil {
		logger.Warn().Err(err).Str("value_id", args.ValueID).Msg("Failed to update value")
		return nil, err
	}
	return value, nil
}

func (v *Variable) RemoveValue(ctx *gin.Context, args *ValueArgs) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("value_id", args.ValueID).
		Msg("RemoveValue called")

	if err := v.variableService.RemoveValue(ctx, args.Workspace, args.ValueID); err != nil {
		logger.Warn().Err(err).Str("value_id", args.ValueID).Msg("Failed to remove value")
		return err
	}

	logger.Info().Str("value_id", args.ValueID).Msg("Value removed successfully")
	return nil
}

func (v *Variable) DuplicateValue(ctx *gin.Context, args *ValueArgs) (*entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("value_id", args.ValueID).
		Msg("DuplicateValue called")

	value, err := v.variableService.DuplicateValue(ctx, args.Workspace, args.ValueID)
	if err != nil {
		logger.Warn().Err(err).Str("value_id", args.ValueID).Msg("Failed to duplicate value")
		return nil, err
	}
	return value, nil
}

func (v *Variable) ReorderValues(ctx *gin.Context, args *ReorderValuesArgs) ([]entity.VariableValue, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("tag_id", args.TagID).
		Int("count", len(args.ValueIDs)).
		Msg("ReorderValues called")

	values, err := v.variableService.ReorderValues(ctx, args.Workspace, args.TagID, &args.ReorderValuesRequest)
	if err != nil {
		logger.Warn().Err(err).Str("tag_id", args.TagID).Msg("Failed to reorder values")
		return nil, err
	}
	return values, nil
}
