// Package upstream 封装对上游认证、搜索和任务接口的调用
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
)

// 默认值
const (
	DefaultAPIBaseURL    = "http://localhost:8000"
	DefaultSearchBaseURL = "https://api.talesofai.cn"
	DefaultPlatform      = "nieta-app/web"
	DefaultTimeout       = 15 * time.Second

	headerPlatform = "x-platform"
	headerToken    = "x-token"
)

// Config 上游客户端配置
type Config struct {
	APIBaseURL    string
	SearchBaseURL string
	Platform      string
	Timeout       time.Duration
}

// Client 上游 HTTP 客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New 创建上游客户端，未设置的字段使用默认值
func New(cfg Config) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = DefaultSearchBaseURL
	}
	if cfg.Platform == "" {
		cfg.Platform = DefaultPlatform
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.SearchBaseURL = strings.TrimRight(cfg.SearchBaseURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// APIBaseURL 返回上游 API 地址
func (c *Client) APIBaseURL() string {
	return c.cfg.APIBaseURL
}

// StatusError 上游返回了非 2xx 状态码
type StatusError struct {
	StatusCode int
	Detail     string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream responded %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("upstream responded %d", e.StatusCode)
}

// DecodeError 上游响应无法解析
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode upstream response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsStatusError 判断 err 是否为上游状态码错误
func IsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsDecodeError 判断 err 是否为响应解析错误
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// checkStatus 非 2xx 时读取响应中的 detail 字段
func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	se := &StatusError{StatusCode: res.StatusCode, Body: body}

	var payload struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch d := payload.Detail.(type) {
		case string:
			se.Detail = d
		case nil:
			se.Detail = payload.Message
		default:
			raw, _ := json.Marshal(d)
			se.Detail = string(raw)
		}
	}
	return se
}

// toJSON 解析 JSON 响应，解析失败时返回 DecodeError
func toJSON(v any) requests.ResponseHandler {
	return func(res *http.Response) error {
		if err := json.NewDecoder(res.Body).Decode(v); err != nil {
			return &DecodeError{Err: err}
		}
		return nil
	}
}

func (c *Client) builder(base, path string) *requests.Builder {
	return requests.URL(base + path).
		Client(c.httpClient).
		Header(headerPlatform, c.cfg.Platform).
		AddValidator(checkStatus)
}

// Login 以表单方式登录，上游兼容 OAuth2 密码模式
func (c *Client) Login(ctx context.Context, account, password string) (*entity.TokenData, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Data        *struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}

	err := c.builder(c.cfg.APIBaseURL, "/login").
		Method(http.MethodPost).
		BodyForm(url.Values{
			"username": {account},
			"password": {password},
		}).
		Handle(toJSON(&resp)).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}

	token := &entity.TokenData{AccessToken: resp.AccessToken, TokenType: resp.TokenType}
	if token.AccessToken == "" && resp.Data != nil {
		token.AccessToken = resp.Data.AccessToken
		token.TokenType = resp.Data.TokenType
	}
	if token.AccessToken == "" {
		return nil, &DecodeError{Err: errors.New("access_token missing")}
	}
	if token.TokenType == "" {
		token.TokenType = "bearer"
	}
	return token, nil
}

// CurrentUser 获取令牌对应的用户，兼容 {data: user} 包装
func (c *Client) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	var raw map[string]any
	err := c.builder(c.cfg.APIBaseURL, "/api/v1/users/me").
		Bearer(token).
		Handle(toJSON(&raw)).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if data, ok := raw["data"].(map[string]any); ok {
		raw = data
	}
	user := &entity.User{Raw: raw}
	user.ID = stringField(raw, "_id")
	user.Fullname = stringField(raw, "fullname")
	user.Email = stringField(raw, "email")
	return user, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// searchResult parent-search 的响应
type searchResult struct {
	Total int `json:"total"`
	List  []struct {
		UUID   string `json:"uuid"`
		Type   string `json:"type"`
		Name   string `json:"name"`
		Config struct {
			AvatarImg string `json:"avatar_img"`
			HeaderImg string `json:"header_img"`
		} `json:"config"`
		HeatScore float64 `json:"heat_score"`
	} `json:"list"`
}

// Search 调用 parent-search 搜索角色或元素
func (c *Client) Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = entity.DefaultSearchPageSize
	}

	b := c.builder(c.cfg.SearchBaseURL, "/v2/travel/parent-search").
		Param("keywords", req.Keywords).
		Param("page_index", strconv.Itoa(req.PageIndex)).
		Param("page_size", strconv.Itoa(pageSize)).
		Param("parent_type", req.Type.ParentType()).
		Param("sort_scheme", "best")
	if req.Token != "" {
		b = b.Header(headerToken, req.Token)
	}

	var result searchResult
	if err := b.Handle(toJSON(&result)).Fetch(ctx); err != nil {
		return nil, err
	}

	items := make([]entity.SearchItem, 0, len(result.List))
	for _, item := range result.List {
		items = append(items, entity.SearchItem{
			UUID:      item.UUID,
			Type:      item.Type,
			Name:      item.Name,
			AvatarImg: item.Config.AvatarImg,
			HeaderImg: item.Config.HeaderImg,
			HeatScore: item.HeatScore,
			TotalSize: result.Total,
		})
	}
	return &entity.SearchResponse{
		Items:         items,
		TotalSize:     result.Total,
		TotalPageSize: TotalPages(result.Total, pageSize),
	}, nil
}

// TotalPages 计算总页数，至少为 1
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// CreatePost 提交生成任务
func (c *Client) CreatePost(ctx context.Context, token string, data *entity.SubmitData) (json.RawMessage, error) {
	var resp json.RawMessage
	b := c.builder(c.cfg.APIBaseURL, "/api/posts").
		Method(http.MethodPost).
		BodyJSON(data).
		Handle(func(res *http.Response) error {
			body, err := io.ReadAll(res.Body)
			if err != nil {
				return err
			}
			if len(body) == 0 {
				return nil
			}
			if !json.Valid(body) {
				return &DecodeError{Err: errors.New("response is not JSON")}
			}
			resp = body
			return nil
		})
	if token != "" {
		b = b.Bearer(token)
	}
	if err := b.Fetch(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}
