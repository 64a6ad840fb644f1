package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/jimyag/tagforge/internal/tagforge/cache"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// SearchClient 上游搜索接口
type SearchClient interface {
	Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error)
}

// SearchService 角色和元素搜索服务
type SearchService struct {
	client SearchClient
	cache  cache.Cache
	group  singleflight.Group
}

// NewSearchService 创建搜索服务，c 为空时不缓存
func NewSearchService(client SearchClient, c cache.Cache) *SearchService {
	if c == nil {
		c = cache.Noop{}
	}
	return &SearchService{
		client: client,
		cache:  c,
	}
}

// emptySearchResponse 上游失败时返回的空结果
func emptySearchResponse() *entity.SearchResponse {
	return &entity.SearchResponse{
		Items:         []entity.SearchItem{},
		TotalSize:     0,
		TotalPageSize: 1,
	}
}

// Search 搜索角色或元素，上游失败时返回空列表
func (s *SearchService) Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error) {
	logger := zerolog.Ctx(ctx)

	req.Keywords = strings.TrimSpace(req.Keywords)
	if req.Keywords == "" {
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter, "必须提供搜索关键词")
	}
	if req.Type.ParentType() == "" {
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter, "unknown search type %q", req.Type)
	}
	if req.PageSize <= 0 {
		req.PageSize = entity.DefaultSearchPageSize
	}
	if req.PageIndex < 0 {
		req.PageIndex = 0
	}

	logger.Debug().
		Str("type", string(req.Type)).
		Str("keywords", req.Keywords).
		Int("page_index", req.PageIndex).
		Int("page_size", req.PageSize).
		Msg("Search called")

	key := cache.Key(cache.DefaultPrefix,
		string(req.Type), req.Keywords, strconv.Itoa(req.PageIndex), strconv.Itoa(req.PageSize))

	var cached entity.SearchResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read search cache")
	}
	if hit {
		logger.Debug().Str("cache_key", key).Msg("Search cache hit")
		return &cached, nil
	}

	// 同一个 key 的请求共享结果，不能因为发起者取消而让其他等待者一起失败
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.client.Search(flightCtx, req)
	})
	if err != nil {
		logger.Warn().Err(err).Str("keywords", req.Keywords).Msg("Failed to search upstream")
		return emptySearchResponse(), nil
	}
	resp := v.(*entity.SearchResponse)

	if err := s.cache.Set(ctx, key, resp); err != nil {
		logger.Warn().Err(err).Msg("Failed to write search cache")
	}
	return resp, nil
}
