package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

// SubmissionServiceInterface 定义提交服务的接口
type SubmissionServiceInterface interface {
	Preview(ctx context.Context, workspace string, req *entity.PreviewRequest) (*entity.PreviewResponse, error)
	Submit(ctx context.Context, workspace string, req *entity.SubmitRequest) (*entity.Submission, error)
	ListSubmissions(ctx context.Context, workspace string, req *entity.ListSubmissionsRequest) ([]entity.Submission, error)
	GetSubmission(ctx context.Context, workspace, id string) (*entity.Submission, error)
	UpdateProgress(ctx context.Context, workspace, id string, req *entity.ProgressRequest) (*entity.Submission, error)
}

// ProgressSubscriber 订阅提交进度
type ProgressSubscriber interface {
	Subscribe(workspace, id string) (<-chan entity.Submission, func())
}

// PreviewArgs 提交预览参数
type PreviewArgs struct {
	WorkspaceArgs
	entity.PreviewRequest
}

// SubmitArgs 提交参数
type SubmitArgs struct {
	WorkspaceArgs
	entity.SubmitRequest
}

// ListSubmissionsArgs 提交记录列表参数
type ListSubmissionsArgs struct {
	WorkspaceArgs
	entity.ListSubmissionsRequest
}

// ProgressArgs 进度回报参数
type ProgressArgs struct {
	SubmissionArgs
	entity.ProgressRequest
}

type Submission struct {
	submissionService SubmissionServiceInterface
	progress          ProgressSubscriber
}

func NewSubmission(submissionService SubmissionServiceInterface, progress ProgressSubscriber) *Submission {
	return &Submission{
		submissionService: submissionService,
		progress:          progress,
	}
}

func (s *Submission) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/submissions/preview", ginx.Adapt5(s.Preview))
	router.POST("/submissions", ginx.Adapt5(s.Submit))
	router.GET("/submissions", ginx.Adapt5(s.ListSubmissions))
	router.GET("/submissions/:id", ginx.Adapt5(s.GetSubmission))
	router.POST("/submissions/:id/progress", ginx.Adapt5(s.UpdateProgress))
	router.GET("/submissions/:id/watch", s.Watch)
}

func (s *Submission) Preview(ctx *gin.Context, args *PreviewArgs) (*entity.PreviewResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", args.Workspace).Msg("Preview called")

	args.PreviewRequest.Token = requestToken(ctx)
	resp, err := s.submissionService.Preview(ctx, args.Workspace, &args.PreviewRequest)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to preview submission")
		return nil, err
	}
	return resp, nil
}

func (s *Submission) Submit(ctx *gin.Context, args *SubmitArgs) (*entity.Submission, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("workspace", args.Workspace).
		Str("task_name", args.TaskName).
		Bool("confirm", args.Confirm).
		Msg("Submit called")

	args.SubmitRequest.Token = requestToken(ctx)
	sub, err := s.submissionService.Submit(ctx, args.Workspace, &args.SubmitRequest)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to submit")
		return nil, err
	}

	logger.Info().
		Str("submission_id", sub.ID).
		Int("total_images", sub.TotalImages).
		Msg("Submitted successfully")
	return sub, nil
}

func (s *Submission) ListSubmissions(ctx *gin.Context, args *ListSubmissionsArgs) ([]entity.Submission, error) {
	subs, err := s.submissionService.ListSubmissions(ctx, args.Workspace, &args.ListSubmissionsRequest)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list submissions")
		return nil, err
	}
	return subs, nil
}

func (s *Submission) GetSubmission(ctx *gin.Context, args *SubmissionArgs) (*entity.Submission, error) {
	sub, err := s.submissionService.GetSubmission(ctx, args.Workspace, args.SubmissionID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("submission_id", args.SubmissionID).Msg("Failed to get submission")
		return nil, err
	}
	return sub, nil
}

func (s *Submission) UpdateProgress(ctx *gin.Context, args *ProgressArgs) (*entity.Submission, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("submission_id", args.SubmissionID).
		Int("completed_images", args.CompletedImages).
		Str("status", string(args.Status)).
		Msg("UpdateProgress called")

	sub, err := s.submissionService.UpdateProgress(ctx, args.Workspace, args.SubmissionID, &args.ProgressRequest)
	if err != nil {
		logger.Warn().Err(err).Str("submission_id", args.SubmissionID).Msg("Failed to update progress")
		return nil, err
	}
	return sub, nil
}
