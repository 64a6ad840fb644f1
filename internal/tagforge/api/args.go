package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// WorkspaceArgs 工作区路径参数
type WorkspaceArgs struct {
	Workspace string `uri:"ws" json:"-"`
}

// TagArgs 标签路径参数
type TagArgs struct {
	Workspace string `uri:"ws" json:"-"`
	TagID     string `uri:"tag_id" json:"-"`
}

// ValueArgs 变量值路径参数
type ValueArgs struct {
	Workspace string `uri:"ws" json:"-"`
	ValueID   string `uri:"value_id" json:"-"`
}

// SubmissionArgs 提交记录路径参数
type SubmissionArgs struct {
	Workspace    string `uri:"ws" json:"-"`
	SubmissionID string `uri:"id" json:"-"`
}

// authorizationToken 读取 Authorization: Bearer 令牌
func authorizationToken(ctx *gin.Context) string {
	scheme, token, ok := strings.Cut(ctx.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requestToken 优先使用 Authorization，其次 x-token
func requestToken(ctx *gin.Context) string {
	if token := authorizationToken(ctx); token != "" {
		return token
	}
	return strings.TrimSpace(ctx.GetHeader("x-token"))
}
