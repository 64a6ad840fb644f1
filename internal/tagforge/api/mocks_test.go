package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService 是 AuthService 的 mock 实现
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LoginResponse), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockSearchService 是 SearchService 的 mock 实现
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SearchResponse), args.Error(1)
}

// MockTagService 是 TagService 的 mock 实现
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) ListTags(ctx context.Context, workspace string) ([]entity.Tag, error) {
	args := m.Called(ctx, workspace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

func (m *MockTagService) AddTag(ctx context.Context, workspace string, req *entity.AddTagRequest) (*entity.TagResponse, error) {
	args := m.Called(ctx, workspace, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TagResponse), args.Error(1)
}

func (m *MockTagService) UpdateTag(ctx context.Context, workspace string, req *entity.UpdateTagRequest) (*entity.TagResponse, error) {
	args := m.Called(ctx, workspace, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TagResponse), args.Error(1)
}

func (m *MockTagService) RemoveTag(ctx context.Context, workspace, tagID string) error {
	args := m.Called(ctx, workspace, tagID)
	return args.Error(0)
}

func (m *MockTagService) ToggleVariable(ctx context.Context, workspace, tagID string) (*entity.ToggleVariableResponse, error) {
	args := m.Called(ctx, workspace, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ToggleVariableResponse), args.Error(1)
}

func (m *MockTagService) ReorderTags(ctx context.Context, workspace string, req *entity.ReorderTagsRequest) ([]entity.Tag, error) {
	args := m.Called(ctx, workspace, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

func (m *MockTagService) ApplyBasePreset(ctx context.Context, workspace string) ([]entity.Tag, error) {
	args := m.Called(ctx, workspace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

func (m *MockTagService) Clear(ctx context.Context, workspace string) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

// MockVariableService 是 VariableService 的 mock 实现
type MockVariableService struct {
	mock.Mock
}

func (m *MockVariableService) ListValues(ctx context.Context, workspace, tagID string) ([]entity.VariableValue, error) {
	args := m.Called(ctx, workspace, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.VariableValue), args.Error(1)
}

func (m *MockVariableService) AddValue(ctx context.Context, workspace, tagID string, req *entity.AddValueRequest) (*entity.VariableValue, error) {
	args := m.Called(ctx, workspace, tagID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VariableValue), args.Error(1)
}

func (m *MockVariableService) UpdateValue(ctx context.Context, workspace, valueID string, req *entity.UpdateValueRequest) (*entity.VariableValue, error) {
	args := m.Called(ctx, workspace, valueID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VariableValue), args.Error(1)
}

func (m *MockVariableService) RemoveValue(ctx context.Context, workspace, valueID string) error {
	args := m.Called(ctx, workspace, valueID)
	return args.Error(0)
}

func (m *MockVariableService) DuplicateValue(ctx context.Context, workspace, valueID string) (*entity.VariableValue, error) {
	args := m.Called(ctx, workspace, valueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VariableValue), args.Error(1)
}

func (m *MockVariableService) ReorderValues(ctx context.Context, workspace, tagID string, req *entity.ReorderValuesRequest) ([]entity.VariableValue, error) {
	args := m.Called(ctx, workspace, tagID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.VariableValue), args.Error(1)
}

// MockWorkspaceService 是 WorkspaceService 的 mock 实现
type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) GetState(ctx context.Context, workspace string) (*entity.WorkspaceState, error) {
	args := m.Called(ctx, workspace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WorkspaceState), args.Error(1)
}

func (m *MockWorkspaceService) Export(ctx context.Context, workspace string) (*entity.ConfigSnapshot, error) {
	args := m.Called(ctx, workspace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConfigSnapshot), args.Error(1)
}

func (m *MockWorkspaceService) ExportFilename() string {
	return m.Called().String(0)
}

func (m *MockWorkspaceService) Import(ctx context.Context, workspace string, data []byte) (*entity.ImportResult, error) {
	args := m.Called(ctx, workspace, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ImportResult), args.Error(1)
}

// MockSettingsService 是 SettingsService 的 mock 实现
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context, workspace string) (*entity.GlobalSettings, error) {
	args := m.Called(ctx, workspace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GlobalSettings), args.Error(1)
}

func (m *MockSettingsService) UpdateSettings(ctx context.Context, workspace string, req *entity.UpdateSettingsRequest) (*entity.GlobalSettings, error) {
	args := m.Called(ctx, workspace, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GlobalSettings), args.Error(1)
}

// MockSubmissionService 是 SubmissionService 的 mock 实现
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Preview(ctx context.Context, workspace string, req *entity.PreviewRequest) (*entity.PreviewResponse, error) {
	args := m.Called(ctx, workspace, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PreviewResponse), args.Error(1)
}

func (m *MockSubmissionService) Submit(ctx context.Context, workspace string, req *entity.SubmitRequest) (*entity.Submission, error) {
	args := m.Called(ctx, workspace, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *MockSubmissionService) ListSubmissions(ctx context.Context, workspace string, req *entity.ListSubmissionsRequest) ([]entity.Submission, error) {
	args := m.Called(ctx, workspace, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Submission), args.Error(1)
}

func (m *MockSubmissionService) GetSubmission(ctx context.Context, workspace, id string) (*entity.Submission, error) {
	args := m.Called(ctx, workspace, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *MockSubmissionService) UpdateProgress(ctx context.Context, workspace, id string, req *entity.ProgressRequest) (*entity.Submission, error) {
	args := m.Called(ctx, workspace, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

// newTestAPI 使用给定服务创建 API
func newTestAPI(t *testing.T, services Services) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)
	api, err := New(":0", services, nil)
	require.NoError(t, err)
	return api
}

// doJSON 发送 JSON 请求
func doJSON(t *testing.T, api *API, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)
	return w
}

// errorCode 读取错误响应中的第一个错误码
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Errors []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	return resp.Errors[0].Code
}
