package apierror_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		testFunc func(*testing.T)
	}{
		{
			name: "Error_Error",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := apierror.NewError("TestError", "test message")
				assert.Equal(t, "[TestError] test message", err.Error())
			},
		},
		{
			name: "Error_Error_WithRawError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := apierror.NewErrorWithRaw("TestError", "test message", fmt.Errorf("raw error"))
				assert.Equal(t, "[TestError] test message (RawError: raw error)", err.Error())
			},
		},
		{
			name: "Error_Is_SameCode",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err1 := apierror.NewError("TestError", "message 1")
				err2 := apierror.NewError("TestError", "message 2")
				assert.True(t, errors.Is(err1, err2))
			},
		},
		{
			name: "Error_Is_DifferentCode",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err1 := apierror.NewError("TestError", "message")
				err2 := apierror.NewError("DifferentError", "message")
				assert.False(t, errors.Is(err1, err2))
			},
		},
		{
			name: "Error_Is_ThroughFmtWrap",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := fmt.Errorf("add tag: %w", apierror.WithMessage(apierror.ErrVariableNameExists, "name %q", "风格"))
				assert.ErrorIs(t, err, apierror.ErrVariableNameExists)
				assert.NotErrorIs(t, err, apierror.ErrTagNotFound)
			},
		},
		{
			name: "Error_Unwrap",
			testFunc: func(t *testing.T) {
				t.Parallel()
				rawErr := fmt.Errorf("raw error")
				assert.Nil(t, errors.Unwrap(apierror.NewError("TestError", "m")))
				assert.Equal(t, rawErr, errors.Unwrap(apierror.NewErrorWithRaw("TestError", "m", rawErr)))
			},
		},
		{
			name: "Error_Status",
			testFunc: func(t *testing.T) {
				t.Parallel()
				assert.Equal(t, http.StatusNotFound, apierror.ErrTagNotFound.Status())
				assert.Equal(t, http.StatusInternalServerError, (&apierror.Error{Code: "X"}).Status())
				var nilErr *apierror.Error
				assert.Equal(t, http.StatusInternalServerError, nilErr.Status())
			},
		},
		{
			name: "Error_JSON_HidesInternalFields",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := apierror.WrapError(apierror.ErrInternalError, "Failed to save tag", fmt.Errorf("disk full"))
				data, mErr := json.Marshal(err)
				require.NoError(t, mErr)
				assert.JSONEq(t, `{"code":"InternalError","message":"Failed to save tag"}`, string(data))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	raw := fmt.Errorf("connection refused")
	err := apierror.WrapError(apierror.ErrUpstreamUnavailable, "login failed", raw)

	assert.Equal(t, "UpstreamUnavailable", err.Code)
	assert.Equal(t, "login failed", err.Message)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
	assert.ErrorIs(t, err, raw)
	// 预定义错误不能被修改
	assert.Equal(t, "Unable to reach the upstream service.", apierror.ErrUpstreamUnavailable.Message)
}

func TestFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantNil  bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "api error", err: apierror.ErrTagNotFound, wantCode: "TagNotFound"},
		{name: "wrapped api error", err: fmt.Errorf("ctx: %w", apierror.ErrInvalidConfig), wantCode: "InvalidConfig"},
		{name: "plain error", err: errors.New("boom"), wantCode: "InternalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := apierror.From(tt.err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	t.Parallel()

	resp := apierror.NewErrorResponse("req-1", apierror.ErrTagNotFound)
	resp.AddError(apierror.ErrValueNotFound)

	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, "RequestID: req-1; [TagNotFound] The tag does not exist.; [ValueNotFound] The variable value does not exist.", resp.Error())

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors":[{"code":"TagNotFound","message":"The tag does not exist."},{"code":"ValueNotFound","message":"The variable value does not exist."}],"requestID":"req-1"}`, string(data))
}

func TestWithStatus(t *testing.T) {
	t.Parallel()

	err := apierror.WithStatus(apierror.ErrUpstreamRejected, http.StatusUnauthorized, "Incorrect username or password")
	assert.Equal(t, apierror.ErrUpstreamRejected.Code, err.Code)
	assert.Equal(t, http.StatusUnauthorized, err.Status())
	assert.Equal(t, "Incorrect username or password", err.Message)
	assert.ErrorIs(t, err, apierror.ErrUpstreamRejected)
}
