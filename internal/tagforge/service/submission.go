package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jimyag/tagforge/internal/tagforge/dispatch"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/repository"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// 提交相关默认值
const (
	DefaultConfirmThreshold = 1000
	DefaultPreviewLimit     = 20
	MaxPreviewLimit         = 500
	DefaultListLimit        = 50
)

// UsernameResolver 根据令牌解析用户名
type UsernameResolver interface {
	Username(ctx context.Context, token string) string
}

// ProgressNotifier 提交状态变化时收到通知
type ProgressNotifier interface {
	Publish(sub entity.Submission)
}

// SubmissionService 提交服务
type SubmissionService struct {
	repo             *repository.Repository
	users            UsernameResolver
	dispatcher       dispatch.Dispatcher
	notifier         ProgressNotifier
	confirmThreshold int
	now              func() time.Time
}

// NewSubmissionService 创建提交服务，confirmThreshold 小于等于 0 时使用默认值
func NewSubmissionService(repo *repository.Repository, users UsernameResolver, dispatcher dispatch.Dispatcher, confirmThreshold int) *SubmissionService {
	if confirmThreshold <= 0 {
		confirmThreshold = DefaultConfirmThreshold
	}
	return &SubmissionService{
		repo:             repo,
		users:            users,
		dispatcher:       dispatcher,
		confirmThreshold: confirmThreshold,
		now:              time.Now,
	}
}

// SetNotifier 设置进度通知，为空时不通知
func (s *SubmissionService) SetNotifier(n ProgressNotifier) {
	s.notifier = n
}

func (s *SubmissionService) notify(sub *entity.Submission) {
	if s.notifier == nil || sub == nil {
		return
	}
	published := *sub
	published.Payload = nil
	s.notifier.Publish(published)
}

// prepared 校验和组装后的提交
type prepared struct {
	tags        []entity.Tag
	values      []entity.VariableValue
	validation  *entity.ValidationError
	totalImages int
	data        entity.SubmitData
}

// prepare 读取工作区并组装提交数据，用户名解析与读取并行
func (s *SubmissionService) prepare(ctx context.Context, workspace, taskName, token string) (*prepared, error) {
	var (
		state    *entity.WorkspaceState
		username string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		state, err = loadState(gctx, s.repo, workspace)
		return err
	})
	g.Go(func() error {
		username = s.users.Username(gctx, token)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}

	p := &prepared{
		tags:        state.Tags,
		values:      state.VariableValues,
		validation:  tagset.Validate(state.Tags, state.VariableValues, token != ""),
		totalImages: tagset.TotalImages(state.Tags, state.VariableValues),
	}
	p.data = tagset.BuildSubmitData(username, taskName, state.Tags, state.VariableValues,
		state.GlobalSettings, s.now().UTC().Format(exportDateLayout))
	return p, nil
}

// Preview 返回提交预览，不保存也不分发
func (s *SubmissionService) Preview(ctx context.Context, workspace string, req *entity.PreviewRequest) (*entity.PreviewResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("workspace", workspace).Msg("Preview called")

	p, err := s.prepare(ctx, workspace, req.TaskName, req.Token)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prepare submission")
		return nil, apierror.WrapError(apierror.ErrInternalError, "prepare submission", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	limit = min(limit, MaxPreviewLimit)

	combinations := tagset.Expand(p.tags, p.values, limit)
	if combinations == nil {
		combinations = []entity.Combination{}
	}
	return &entity.PreviewResponse{
		TotalImages:          p.totalImages,
		RequiresConfirmation: p.totalImages > s.confirmThreshold,
		Validation:           p.validation,
		Payload:              &p.data,
		Combinations:         combinations,
	}, nil
}

// Submit 校验、保存并分发提交
func (s *SubmissionService) Submit(ctx context.Context, workspace string, req *entity.SubmitRequest) (*entity.Submission, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("workspace", workspace).Str("task_name", req.TaskName).Msg("Submit called")

	p, err := s.prepare(ctx, workspace, req.TaskName, req.Token)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prepare submission")
		return nil, apierror.WrapError(apierror.ErrInternalError, "prepare submission", err)
	}
	if p.validation != nil {
		logger.Info().Str("code", p.validation.Code).Msg("Submission rejected by validation")
		return nil, validationError(p.validation)
	}
	if p.totalImages > s.confirmThreshold && !req.Confirm {
		return nil, apierror.WithMessage(apierror.ErrConfirmationRequired,
			"即将生成 %d 张图片，超过 %d 张需要确认", p.totalImages, s.confirmThreshold)
	}
	// 分发前再次检查变量标签数量
	if tagset.CountVariableTags(p.tags) > tagset.MaxVariableTags {
		return nil, validationError(tagset.CheckVariableTagsCount(p.tags))
	}

	id, err := newSubmissionID()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "generate submission id", err)
	}
	submission := &entity.Submission{
		ID:          id,
		Workspace:   workspace,
		Username:    p.data.Username,
		TaskName:    p.data.TaskName,
		Status:      entity.SubmissionStatusPending,
		TotalImages: p.totalImages,
		Payload:     &p.data,
		CreatedAt:   s.now().Format(time.RFC3339),
	}
	m, err := submissionEntityToModel(submission)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "convert submission", err)
	}
	if err := s.repo.Submissions().Create(ctx, m); err != nil {
		logger.Error().Err(err).Str("submission_id", id).Msg("Failed to save submission")
		return nil, apierror.WrapError(apierror.ErrInternalError, "save submission", err)
	}

	dispatchErr := s.dispatcher.Dispatch(ctx, &dispatch.Job{
		SubmissionID: id,
		Workspace:    workspace,
		TotalImages:  p.totalImages,
		Data:         &p.data,
		Token:        req.Token,
	})
	if dispatchErr != nil {
		m.Status = string(entity.SubmissionStatusFailed)
		m.Error = dispatchErr.Error()
	} else {
		m.Status = string(entity.SubmissionStatusRunning)
	}
	m.UpdatedAt = s.now()
	if err := s.repo.Submissions().Update(ctx, m); err != nil {
		logger.Error().Err(err).Str("submission_id", id).Msg("Failed to update submission status")
		return nil, apierror.WrapError(apierror.ErrInternalError, "update submission", err)
	}

	if dispatchErr != nil {
		logger.Error().Err(dispatchErr).Str("submission_id", id).Msg("Failed to dispatch submission")
		if failed, err := submissionModelToEntity(m); err == nil {
			s.notify(failed)
		}
		return nil, apierror.WrapError(apierror.ErrDispatchFailed, "提交失败: "+dispatchErr.Error(), dispatchErr)
	}

	out, err := submissionModelToEntity(m)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "convert submission", err)
	}
	logger.Info().
		Str("submission_id", id).
		Str("username", out.Username).
		Int("total_images", out.TotalImages).
		Msg("Submission dispatched successfully")
	s.notify(out)
	return out, nil
}

// validationError 将提交校验错误转换为 API 错误
func validationError(v *entity.ValidationError) error {
	status := http.StatusBadRequest
	if v.Code == tagset.CodeNotLoggedIn {
		status = http.StatusUnauthorized
	}
	return apierror.NewErrorWithStatus(v.Code, v.Message, status)
}

// ListSubmissions 按时间倒序列出提交记录，不包含提交数据
func (s *SubmissionService) ListSubmissions(ctx context.Context, workspace string, req *entity.ListSubmissionsRequest) ([]entity.Submission, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	models, err := s.repo.Submissions().List(ctx, workspace, limit, req.Offset)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list submissions")
		return nil, apierror.WrapError(apierror.ErrInternalError, "list submissions", err)
	}

	out := make([]entity.Submission, 0, len(models))
	for _, m := range models {
		e, err := submissionModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "convert submission", err)
		}
		e.Payload = nil
		out = append(out, *e)
	}
	return out, nil
}

// GetSubmission 返回提交记录
func (s *SubmissionService) GetSubmission(ctx context.Context, workspace, id string) (*entity.Submission, error) {
	m, err := s.repo.Submissions().Get(ctx, workspace, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.WithMessage(apierror.ErrSubmissionNotFound, "submission %s does not exist", id)
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("submission_id", id).Msg("Failed to get submission")
		return nil, apierror.WrapError(apierror.ErrInternalError, "get submission", err)
	}
	out, err := submissionModelToEntity(m)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "convert submission", err)
	}
	return out, nil
}

// UpdateProgress 生成后端回报进度
func (s *SubmissionService) UpdateProgress(ctx context.Context, workspace, id string, req *entity.ProgressRequest) (*entity.Submission, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("submission_id", id).
		Int("completed_images", req.CompletedImages).
		Str("status", string(req.Status)).
		Msg("UpdateProgress called")

	if req.CompletedImages < 0 {
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter, "completed_images must not be negative")
	}
	switch req.Status {
	case "", entity.SubmissionStatusRunning, entity.SubmissionStatusCompleted, entity.SubmissionStatusFailed:
	default:
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter, "unknown status %q", req.Status)
	}

	var out *entity.Submission
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		m, err := tx.Submissions().Get(ctx, workspace, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.WithMessage(apierror.ErrSubmissionNotFound, "submission %s does not exist", id)
			}
			return err
		}
		if entity.SubmissionStatus(m.Status).Finished() {
			return apierror.WithMessage(apierror.ErrSubmissionFinished,
				"submission %s is already %s", id, m.Status)
		}

		m.CompletedImages = min(req.CompletedImages, m.TotalImages)
		if m.TotalImages > 0 {
			m.Progress = float64(m.CompletedImages) / float64(m.TotalImages) * 100
		}
		switch {
		case req.Status != "":
			m.Status = string(req.Status)
		case m.TotalImages > 0 && m.CompletedImages == m.TotalImages:
			m.Status = string(entity.SubmissionStatusCompleted)
		default:
			m.Status = string(entity.SubmissionStatusRunning)
		}
		if req.Error != "" {
			m.Error = strings.TrimSpace(req.Error)
		}
		m.UpdatedAt = s.now()
		if err := tx.Submissions().Update(ctx, m); err != nil {
			return err
		}
		out, err = submissionModelToEntity(m)
		return err
	})
	if err != nil {
		logger.Warn().Err(err).Str("submission_id", id).Msg("Failed to update progress")
		return nil, asAPIError(err, "update progress")
	}
	s.notify(out)
	return out, nil
}
