package api

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

// SearchServiceInterface 定义搜索服务的接口
type SearchServiceInterface interface {
	Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error)
}

// SearchArgs 搜索参数
type SearchArgs struct {
	Type      string `uri:"type"`
	Keywords  string `form:"keywords"`
	PageIndex int    `form:"page_index"`
	PageSize  int    `form:"page_size"`
}

type Search struct {
	searchService SearchServiceInterface
}

func NewSearch(searchService SearchServiceInterface) *Search {
	return &Search{
		searchService: searchService,
	}
}

func (s *Search) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/:type", ginx.Adapt5(s.Search))
}

func (s *Search) Search(ctx *gin.Context, args *SearchArgs) (*entity.SearchResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("type", args.Type).
		Str("keywords", args.Keywords).
		Int("page_index", args.PageIndex).
		Msg("Search called")

	// 搜索令牌优先来自 x-token
	token := strings.TrimSpace(ctx.GetHeader("x-token"))
	if token == "" {
		token = authorizationToken(ctx)
	}

	resp, err := s.searchService.Search(ctx, &entity.SearchRequest{
		Type:      entity.SearchType(args.Type),
		Keywords:  args.Keywords,
		PageIndex: args.PageIndex,
		PageSize:  args.PageSize,
		Token:     token,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to search")
		return nil, err
	}

	logger.Info().
		Int("count", len(resp.Items)).
		Int("total_size", resp.TotalSize).
		Msg("Search completed successfully")
	return resp, nil
}
