package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jimyag/tagforge/internal/tagforge/dispatch"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/repository"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWorkspace = "test"

var testPalette = tagset.FixedPalette{Solid: "#111111", GradientFrom: "#222222", GradientTo: "#333333"}

// TestServices 包含测试所需的所有服务和依赖
type TestServices struct {
	Repo              *repository.Repository
	Users             *MockUsernameResolver
	Dispatcher        *MockDispatcher
	TagService        *TagService
	VariableService   *VariableService
	SettingsService   *SettingsService
	WorkspaceService  *WorkspaceService
	SubmissionService *SubmissionService
}

// setupTestServices 为每个测试用例创建独立的数据库和服务
func setupTestServices(t *testing.T) *TestServices {
	t.Helper()

	tmpDir := t.TempDir()
	repo, err := repository.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(tmpDir)
	})

	users := &MockUsernameResolver{}
	dispatcher := &MockDispatcher{}
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	workspaceService := NewWorkspaceService(repo)
	workspaceService.now = func() time.Time { return fixed }
	submissionService := NewSubmissionService(repo, users, dispatcher, 0)
	submissionService.now = func() time.Time { return fixed }

	return &TestServices{
		Repo:              repo,
		Users:             users,
		Dispatcher:        dispatcher,
		TagService:        NewTagService(repo, testPalette),
		VariableService:   NewVariableService(repo),
		SettingsService:   NewSettingsService(repo),
		WorkspaceService:  workspaceService,
		SubmissionService: submissionService,
	}
}

// addTag 添加标签并返回结果
func (ts *TestServices) addTag(t *testing.T, req entity.AddTagRequest) *entity.TagResponse {
	t.Helper()
	resp, err := ts.TagService.AddTag(context.Background(), testWorkspace, &req)
	require.NoError(t, err)
	return resp
}

// addValue 为变量标签添加值
func (ts *TestServices) addValue(t *testing.T, tagID, value string) *entity.VariableValue {
	t.Helper()
	v, err := ts.VariableService.AddValue(context.Background(), testWorkspace, tagID, &entity.AddValueRequest{Value: &value})
	require.NoError(t, err)
	return v
}

func (ts *TestServices) state(t *testing.T) *entity.WorkspaceState {
	t.Helper()
	state, err := ts.WorkspaceService.GetState(context.Background(), testWorkspace)
	require.NoError(t, err)
	return state
}

// MockUsernameResolver 用户名解析 mock
type MockUsernameResolver struct {
	mock.Mock
}

func (m *MockUsernameResolver) Username(ctx context.Context, token string) string {
	args := m.Called(ctx, token)
	return args.String(0)
}

// recordingNotifier 记录发布的提交状态
type recordingNotifier struct {
	mu        sync.Mutex
	published []entity.Submission
}

func (n *recordingNotifier) Publish(sub entity.Submission) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, sub)
}

func (n *recordingNotifier) statuses() []entity.SubmissionStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entity.SubmissionStatus, 0, len(n.published))
	for _, sub := range n.published {
		out = append(out, sub.Status)
	}
	return out
}

// MockDispatcher 分发器 mock
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, job *dispatch.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockDispatcher) Close() error {
	return nil
}

// MockAuthClient 上游认证 mock
type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) Login(ctx context.Context, account, password string) (*entity.TokenData, error) {
	args := m.Called(ctx, account, password)
	if v := args.Get(0); v != nil {
		return v.(*entity.TokenData), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthClient) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSearchClient 上游搜索 mock
type MockSearchClient struct {
	mock.Mock
}

func (m *MockSearchClient) Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*entity.SearchResponse), args.Error(1)
	}
	return nil, args.Error(1)
}
