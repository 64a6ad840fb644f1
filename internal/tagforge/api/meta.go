package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
	"github.com/jimyag/tagforge/pkg/ginx"
)

// Meta 标签类型和比例等静态信息
type Meta struct{}

func NewMeta() *Meta {
	return &Meta{}
}

func (m *Meta) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tag-types", ginx.Adapt2(m.TagTypes))
	router.GET("/ratios", ginx.Adapt2(m.Ratios))
}

func (m *Meta) TagTypes(ctx *gin.Context) []entity.TagTypeInfo {
	out := make([]entity.TagTypeInfo, 0, len(entity.TagTypes))
	for _, t := range entity.TagTypes {
		out = append(out, entity.TagTypeInfo{
			Type:          t,
			DisplayName:   tagset.DisplayName(t),
			CanBeVariable: tagset.CanBeVariable(t),
			Multiple:      tagset.IsMultiple(t),
			DefaultValue:  tagset.DefaultValue(t),
			ReservedName:  tagset.ReservedName(t),
		})
	}
	return out
}

func (m *Meta) Ratios(ctx *gin.Context) []string {
	return tagset.Ratios
}
