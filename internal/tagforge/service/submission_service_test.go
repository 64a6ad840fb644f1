package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jimyag/tagforge/internal/tagforge/dispatch"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// seedSubmission 构造一个会生成 4 张图的工作区：2 个比例 × 批次 2
func seedSubmission(t *testing.T, ts *TestServices) {
	t.Helper()
	ts.addTag(t, entity.AddTagRequest{Type: entity.TagTypePrompt, Value: "1girl"})
	ratio := ts.addTag(t, entity.AddTagRequest{Type: entity.TagTypeRatio, IsVariable: true})
	ts.addValue(t, ratio.Tag.ID, "1:1")
	ts.addTag(t, entity.AddTagRequest{Type: entity.TagTypeBatch, Value: "2"})
}

func TestSubmissionService_Preview(t *testing.T) {
	t.Parallel()
	ts := setupTestServices(t)
	seedSubmission(t, ts)
	ts.Users.On("Username", mock.Anything, "tok").Return("alice")

	resp, err := ts.SubmissionService.Preview(context.Background(), testWorkspace, &entity.PreviewRequest{Token: "tok"})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TotalImages)
	assert.False(t, resp.RequiresConfirmation)
	assert.Nil(t, resp.Validation)
	assert.Equal(t, []entity.Combination{
		{"比例测试": "3:5"},
		{"比例测试": "1:1"},
	}, resp.Combinations)

	require.NotNil(t, resp.Payload)
	assert.Equal(t, "alice", resp.Payload.Username)
	assert.Equal(t, entity.DefaultTaskName, resp.Payload.TaskName)
	assert.Len(t, resp.Payload.Variables["比例测试"], 2)
	assert.Equal(t, "2025-03-04T05:06:07.000Z", resp.Payload.CreatedAt)
	ts.Dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestSubmissionService_Submit_Validation(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name       string
		seed       bool
		token      string
		wantCode   string
		wantStatus int
	}{
		{name: "no tags", token: "tok", wantCode: tagset.CodeNoTags, wantStatus: http.StatusBadRequest},
		{name: "not logged in", seed: true, wantCode: tagset.CodeNotLoggedIn, wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := setupTestServices(t)
			if tc.seed {
				seedSubmission(t, ts)
			}
			ts.Users.On("Username", mock.Anything, mock.Anything).Return(AnonymousUsername).Maybe()

			_, err := ts.SubmissionService.Submit(context.Background(), testWorkspace, &entity.SubmitRequest{Token: tc.token})
			apiErr := apierror.From(err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tc.wantCode, apiErr.Code)
			assert.Equal(t, tc.wantStatus, apiErr.Status())
			ts.Dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmissionService_Submit_Confirmation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := setupTestServices(t)
	seedSubmission(t, ts)
	ts.SubmissionService.confirmThreshold = 3
	ts.Users.On("Username", mock.Anything, "tok").Return("alice")
	ts.Dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	_, err := ts.SubmissionService.Submit(ctx, testWorkspace, &entity.SubmitRequest{Token: "tok"})
	assert.ErrorIs(t, err, apierror.ErrConfirmationRequired)
	ts.Dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)

	sub, err := ts.SubmissionService.Submit(ctx, testWorkspace, &entity.SubmitRequest{Token: "tok", Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionStatusRunning, sub.Status)
}

func TestSubmissionService_SubmitAndProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := setupTestServices(t)
	seedSubmission(t, ts)
	ts.Users.On("Username", mock.Anything, "tok").Return("alice")
	ts.Dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(job *dispatch.Job) bool {
		return job.Token == "tok" && job.TotalImages == 4 && job.Data.TaskName == "夜景"
	})).Return(nil).Once()

	sub, err := ts.SubmissionService.Submit(ctx, testWorkspace, &entity.SubmitRequest{TaskName: "夜景", Token: "tok"})
	require.NoError(t, err)
	ts.Dispatcher.AssertExpectations(t)

	assert.Equal(t, "alice", sub.Username)
	assert.Equal(t, "夜景", sub.TaskName)
	assert.Equal(t, 4, sub.TotalImages)
	assert.Equal(t, entity.SubmissionStatusRunning, sub.Status)

	got, err := ts.SubmissionService.GetSubmission(ctx, testWorkspace, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Payload)
	assert.Len(t, got.Payload.Tags, 3)

	progress, err := ts.SubmissionService.UpdateProgress(ctx, testWorkspace, sub.ID, &entity.ProgressRequest{CompletedImages: 2})
	require.NoError(t, err)
	assert.Equal(t, 50.0, progress.Progress)
	assert.Equal(t, entity.SubmissionStatusRunning, progress.Status)

	progress, err = ts.SubmissionService.UpdateProgress(ctx, testWorkspace, sub.ID, &entity.ProgressRequest{CompletedImages: 4})
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.Progress)
	assert.Equal(t, entity.SubmissionStatusCompleted, progress.Status)

	_, err = ts.SubmissionService.UpdateProgress(ctx, testWorkspace, sub.ID, &entity.ProgressRequest{Status: "paused"})
	assert.ErrorIs(t, err, apierror.ErrInvalidParameter)

	// 完成后迟到的回调不能改变状态
	_, err = ts.SubmissionService.UpdateProgress(ctx, testWorkspace, sub.ID, &entity.ProgressRequest{CompletedImages: 1})
	assert.ErrorIs(t, err, apierror.ErrSubmissionFinished)
	got, err = ts.SubmissionService.GetSubmission(ctx, testWorkspace, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionStatusCompleted, got.Status)
	assert.Equal(t, 4, got.CompletedImages)

	_, err = ts.SubmissionService.UpdateProgress(ctx, testWorkspace, "sub-404", &entity.ProgressRequest{})
	assert.ErrorIs(t, err, apierror.ErrSubmissionNotFound)
}

func TestSubmissionService_UpdateProgress_FinishedIsTerminal(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name   string
		finish entity.ProgressRequest
		late   entity.ProgressRequest
		want   entity.SubmissionStatus
	}{
		{
			name:   "completed then progress",
			finish: entity.ProgressRequest{CompletedImages: 4},
			late:   entity.ProgressRequest{CompletedImages: 1},
			want:   entity.SubmissionStatusCompleted,
		},
		{
			name:   "failed then running",
			finish: entity.ProgressRequest{Status: entity.SubmissionStatusFailed, Error: "gpu lost"},
			late:   entity.ProgressRequest{Status: entity.SubmissionStatusRunning, CompletedImages: 2},
			want:   entity.SubmissionStatusFailed,
		},
		{
			name:   "failed then completed",
			finish: entity.ProgressRequest{Status: entity.SubmissionStatusFailed},
			late:   entity.ProgressRequest{Status: entity.SubmissionStatusCompleted, CompletedImages: 4},
			want:   entity.SubmissionStatusFailed,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			ts := setupTestServices(t)
			seedSubmission(t, ts)
			notifier := &recordingNotifier{}
			ts.SubmissionService.SetNotifier(notifier)
			ts.Users.On("Username", mock.Anything, "tok").Return("alice")
			ts.Dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

			sub, err := ts.SubmissionService.Submit(ctx, testWorkspace, &entity.SubmitRequest{Token: "tok"})
			require.NoError(t, err)

			finish := tc.finish
			_, err = ts.SubmissionService.UpdateProgress(ctx, testWorkspace, sub.ID, &finish)
			require.NoError(t, err)

			late := tc.late
			_, err = ts.SubmissionService.UpdateProgress(ctx, testWorkspace, sub.ID, &late)
			assert.ErrorIs(t, err, apierror.ErrSubmissionFinished)

			got, err := ts.SubmissionService.GetSubmission(ctx, testWorkspace, sub.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Status)
			// 被拒绝的回调不广播
			assert.Equal(t, []entity.SubmissionStatus{entity.SubmissionStatusRunning, tc.want}, notifier.statuses())
		})
	}
}

func TestSubmissionService_Submit_DispatchFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := setupTestServices(t)
	seedSubmission(t, ts)
	notifier := &recordingNotifier{}
	ts.SubmissionService.SetNotifier(notifier)
	ts.Users.On("Username", mock.Anything, "tok").Return("alice")
	ts.Dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := ts.SubmissionService.Submit(ctx, testWorkspace, &entity.SubmitRequest{Token: "tok"})
	assert.ErrorIs(t, err, apierror.ErrDispatchFailed)

	list, err := ts.SubmissionService.ListSubmissions(ctx, testWorkspace, &entity.ListSubmissionsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.SubmissionStatusFailed, list[0].Status)
	assert.Contains(t, list[0].Error, "broker down")
	// 列表不返回提交数据
	assert.Nil(t, list[0].Payload)

	// 分发失败的状态同样广播给观察者
	require.Len(t, notifier.published, 1)
	assert.Equal(t, entity.SubmissionStatusFailed, notifier.published[0].Status)
	assert.Nil(t, notifier.published[0].Payload)
}

func TestSubmissionService_GetSubmission_NotFound(t *testing.T) {
	t.Parallel()
	ts := setupTestServices(t)

	_, err := ts.SubmissionService.GetSubmission(context.Background(), testWorkspace, "sub-404")
	assert.ErrorIs(t, err, apierror.ErrSubmissionNotFound)
}
