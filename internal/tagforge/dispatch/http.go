package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/rs/zerolog"
)

// Poster 上游任务接口
type Poster interface {
	CreatePost(ctx context.Context, token string, data *entity.SubmitData) (json.RawMessage, error)
}

// HTTP 通过上游 /api/posts 提交任务
type HTTP struct {
	poster Poster
}

// NewHTTP 创建 HTTP 分发器
func NewHTTP(poster Poster) *HTTP {
	return &HTTP{poster: poster}
}

func (d *HTTP) Dispatch(ctx context.Context, job *Job) error {
	resp, err := d.poster.CreatePost(ctx, job.Token, job.Data)
	if err != nil {
		return fmt.Errorf("post submission %s: %w", job.SubmissionID, err)
	}
	event := zerolog.Ctx(ctx).Info().Str("submission_id", job.SubmissionID)
	if len(resp) > 0 {
		event = event.RawJSON("response", resp)
	}
	event.Msg("Submission posted successfully")
	return nil
}

func (d *HTTP) Close() error {
	return nil
}
