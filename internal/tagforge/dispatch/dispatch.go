// Package dispatch 将准备好的提交数据发送给生成后端
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
)

// 分发方式
const (
	KindLog   = "log"
	KindHTTP  = "http"
	KindKafka = "kafka"
)

// Job 一次提交
type Job struct {
	SubmissionID string             `json:"submission_id"`
	Workspace    string             `json:"workspace"`
	TotalImages  int                `json:"total_images"`
	Data         *entity.SubmitData `json:"data"`
	// Token 用户令牌，不随消息发送
	Token string `json:"-"`
}

// Dispatcher 分发器
type Dispatcher interface {
	Dispatch(ctx context.Context, job *Job) error
	Close() error
}

// Config 分发器配置
type Config struct {
	Kind         string
	KafkaBrokers []string
	KafkaTopic   string
}

// New 按配置创建分发器
func New(cfg Config, poster Poster) (Dispatcher, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", KindLog:
		return NewLog(), nil
	case KindHTTP:
		if poster == nil {
			return nil, fmt.Errorf("http dispatcher requires an upstream client")
		}
		return NewHTTP(poster), nil
	case KindKafka:
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil, fmt.Errorf("unknown dispatcher %q", cfg.Kind)
	}
}
