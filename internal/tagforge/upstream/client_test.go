package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIBaseURL: srv.URL + "/", SearchBaseURL: srv.URL})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantToken string
		wantType  string
		checkErr  func(t *testing.T, err error)
	}{
		{
			name: "form encoded credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/login", r.URL.Path)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				assert.Equal(t, DefaultPlatform, r.Header.Get("x-platform"))
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "a@b.c", r.PostForm.Get("username"))
				assert.Equal(t, "secret", r.PostForm.Get("password"))
				writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok"})
			},
			wantToken: "tok",
			wantType:  "bearer",
		},
		{
			name: "nested data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{
					"code": 0,
					"data": map[string]string{"access_token": "nested", "token_type": "Bearer"},
				})
			},
			wantToken: "nested",
			wantType:  "Bearer",
		},
		{
			name: "upstream rejects with detail",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			},
			checkErr: func(t *testing.T, err error) {
				se, ok := IsStatusError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
				assert.Equal(t, "Incorrect username or password", se.Detail)
			},
		},
		{
			name: "unparsable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
			checkErr: func(t *testing.T, err error) {
				assert.True(t, IsDecodeError(err))
			},
		},
		{
			name: "missing token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"token_type": "bearer"})
			},
			checkErr: func(t *testing.T, err error) {
				assert.True(t, IsDecodeError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, tt.handler)
			token, err := client.Login(context.Background(), "a@b.c", "secret")
			if tt.checkErr != nil {
				require.Error(t, err)
				tt.checkErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token.AccessToken)
			assert.Equal(t, tt.wantType, token.TokenType)
		})
	}
}

func TestClient_Login_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := New(Config{APIBaseURL: srv.URL})
	_, err := client.Login(context.Background(), "a", "b")
	require.Error(t, err)
	_, isStatus := IsStatusError(err)
	assert.False(t, isStatus)
	assert.False(t, IsDecodeError(err))
}

func TestClient_CurrentUser(t *testing.T) {
	t.Parallel()

	t.Run("unwraps data", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/users/me", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"code": 0,
				"data": map[string]any{"_id": "u1", "email": "alice@example.com", "roles": []string{"user"}},
			})
		})

		user, err := client.CurrentUser(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Empty(t, user.Fullname)
		assert.Contains(t, user.Raw, "roles")
	})

	t.Run("flat user", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"_id": "u2", "fullname": "Bob"})
		})

		user, err := client.CurrentUser(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "Bob", user.Fullname)
	})

	t.Run("unauthorized", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		})

		_, err := client.CurrentUser(context.Background(), "bad")
		se, ok := IsStatusError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	})
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v2/travel/parent-search", r.URL.Path)
		assert.Equal(t, "miku", q.Get("keywords"))
		assert.Equal(t, "1", q.Get("page_index"))
		assert.Equal(t, "20", q.Get("page_size"))
		assert.Equal(t, "oc", q.Get("parent_type"))
		assert.Equal(t, "best", q.Get("sort_scheme"))
		assert.Equal(t, "xt", r.Header.Get("x-token"))
		assert.Equal(t, DefaultPlatform, r.Header.Get("x-platform"))

		writeJSON(w, http.StatusOK, map[string]any{
			"total": 41,
			"list": []map[string]any{
				{
					"uuid":       "c-1",
					"type":       "oc",
					"name":       "Miku",
					"heat_score": 12.5,
					"config":     map[string]string{"avatar_img": "a.png", "header_img": "h.png"},
				},
			},
		})
	})

	resp, err := client.Search(context.Background(), &entity.SearchRequest{
		Type:      entity.SearchTypeCharacter,
		Keywords:  "miku",
		PageIndex: 1,
		Token:     "xt",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, entity.SearchItem{
		UUID:      "c-1",
		Type:      "oc",
		Name:      "Miku",
		AvatarImg: "a.png",
		HeaderImg: "h.png",
		HeatScore: 12.5,
		TotalSize: 41,
	}, resp.Items[0])
	assert.Equal(t, 41, resp.TotalSize)
	assert.Equal(t, 3, resp.TotalPageSize)
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{10, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.pageSize), "total=%d pageSize=%d", tt.total, tt.pageSize)
	}
}

func TestClient_CreatePost(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var data entity.SubmitData
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&data))
		assert.Equal(t, "alice", data.Username)
		writeJSON(w, http.StatusCreated, map[string]string{"id": "post-1"})
	})

	resp, err := client.CreatePost(context.Background(), "tok", &entity.SubmitData{Username: "alice"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"post-1"}`, string(resp))
}
