package ginx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ValidatedArgs 用于测试 IsValid 方法
type ValidatedArgs struct {
	Username string `json:"username"`
}

func (args *ValidatedArgs) IsValid() error {
	if args.Username == "" {
		return errors.New("username is required")
	}
	return nil
}

type apiErrorArgs struct {
	Name string `json:"name"`
}

func (args *apiErrorArgs) IsValid() error {
	if args.Name == "" {
		return apierror.ErrInvalidVariableName
	}
	return nil
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(ginx.RequestID())
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierror.ErrorResponse {
	t.Helper()
	var resp apierror.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	return resp
}

func TestAdapt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		testFunc func(*testing.T)
	}{
		{
			name: "Adapt1_NoArgsError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				router.POST("/test", ginx.Adapt1(func(c *gin.Context) error {
					return nil
				}))

				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", nil))

				assert.Equal(t, http.StatusNoContent, w.Code)
			},
		},
		{
			name: "Adapt2_NoArgsReturn",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				router.GET("/test", ginx.Adapt2(func(c *gin.Context) string {
					return "ok"
				}))

				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

				assert.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, "ok", w.Body.String())
			},
		},
		{
			name: "Adapt3_PlainErrorBecomesInternalError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				router.GET("/test", ginx.Adapt3(func(c *gin.Context) (string, error) {
					return "", assert.AnError
				}))

				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

				assert.Equal(t, http.StatusInternalServerError, w.Code)
				resp := decodeError(t, w)
				assert.Equal(t, "InternalError", resp.Errors[0].Code)
				assert.NotContains(t, w.Body.String(), assert.AnError.Error())
				assert.Equal(t, w.Header().Get(ginx.HeaderRequestID), resp.RequestID)
			},
		},
		{
			name: "Adapt3_NilPointerIsNoContent",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				type Response struct{}
				router.GET("/test", ginx.Adapt3(func(c *gin.Context) (*Response, error) {
					return nil, nil
				}))

				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

				assert.Equal(t, http.StatusNoContent, w.Code)
			},
		},
		{
			name: "Adapt4_URIBinding",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()

				type Args struct {
					ID string `uri:"id"`
				}

				router.DELETE("/test/:id", ginx.Adapt4(func(c *gin.Context, args *Args) error {
					assert.Equal(t, "tag-123", args.ID)
					return nil
				}))

				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test/tag-123", nil))

				assert.Equal(t, http.StatusNoContent, w.Code)
			},
		},
		{
			name: "Adapt4_APIErrorStatus",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()

				type Args struct {
					ID string `uri:"id"`
				}

				router.DELETE("/test/:id", ginx.Adapt4(func(c *gin.Context, args *Args) error {
					return apierror.ErrTagNotFound
				}))

				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test/x", nil))

				assert.Equal(t, http.StatusNotFound, w.Code)
				assert.Equal(t, "TagNotFound", decodeError(t, w).Errors[0].Code)
			},
		},
		{
			name: "Adapt5_JSONWithURIAndQuery",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()

				type Args struct {
					Workspace string `uri:"ws" json:"-"`
					Confirm   bool   `form:"confirm" json:"-"`
					Title     string `json:"title"`
				}

				router.POST("/ws/:ws/items", ginx.Adapt5(func(c *gin.Context, args *Args) (gin.H, error) {
					return gin.H{"ws": args.Workspace, "confirm": args.Confirm, "title": args.Title}, nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/ws/default/items?confirm=true", strings.NewReader(`{"title":"hello"}`))
				req.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `{"ws":"default","confirm":true,"title":"hello"}`, w.Body.String())
			},
		},
		{
			name: "Adapt5_FormBinding",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()

				type Args struct {
					Username string `form:"username"`
				}

				router.POST("/test", ginx.Adapt5(func(c *gin.Context, args *Args) (string, error) {
					return args.Username, nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("username=alice"))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, "alice", w.Body.String())
			},
		},
		{
			name: "Adapt5_MalformedJSON",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				router.POST("/test", ginx.Adapt5(func(c *gin.Context, args *ValidatedArgs) (string, error) {
					return args.Username, nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"username":`))
				req.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, "InvalidParameter", decodeError(t, w).Errors[0].Code)
			},
		},
		{
			name: "Adapt5_IsValid",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				router.POST("/test", ginx.Adapt5(func(c *gin.Context, args *ValidatedArgs) (string, error) {
					return args.Username, nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
				req.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				resp := decodeError(t, w)
				assert.Equal(t, "InvalidParameter", resp.Errors[0].Code)
				assert.Equal(t, "username is required", resp.Errors[0].Message)
			},
		},
		{
			name: "Adapt5_IsValidReturnsAPIError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				router.POST("/test", ginx.Adapt5(func(c *gin.Context, args *apiErrorArgs) (string, error) {
					return args.Name, nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
				req.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, "InvalidVariableName", decodeError(t, w).Errors[0].Code)
			},
		},
		{
			name: "RequestID_FromHeader",
			testFunc: func(t *testing.T) {
				t.Parallel()
				router := newRouter()
				router.GET("/test", ginx.Adapt3(func(c *gin.Context) (string, error) {
					return ginx.GetRequestID(c), nil
				}))

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set(ginx.HeaderRequestID, "req-42")
				router.ServeHTTP(w, req)

				assert.Equal(t, "req-42", w.Body.String())
				assert.Equal(t, "req-42", w.Header().Get(ginx.HeaderRequestID))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
