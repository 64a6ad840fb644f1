package dispatch

import (
	"context"

	"github.com/rs/zerolog"
)

// Log 只记录提交内容，不发送到任何后端
type Log struct{}

// NewLog 创建日志分发器
func NewLog() *Log {
	return &Log{}
}

func (d *Log) Dispatch(ctx context.Context, job *Job) error {
	logger := zerolog.Ctx(ctx)

	variables, values := 0, 0
	for _, vs := range job.Data.Variables {
		variables++
		values += len(vs)
	}

	logger.Info().
		Str("submission_id", job.SubmissionID).
		Str("username", job.Data.Username).
		Str("task_name", job.Data.TaskName).
		Int("tags", len(job.Data.Tags)).
		Int("variables", variables).
		Int("values", values).
		Int("total_images", job.TotalImages).
		Int("max_threads", job.Data.Settings.MaxThreads).
		Str("created_at", job.Data.CreatedAt).
		Msg("Submission dispatched to log")

	for _, tag := range job.Data.Tags {
		event := logger.Debug().
			Str("submission_id", job.SubmissionID).
			Str("tag_id", tag.ID).
			Str("type", string(tag.Type)).
			Bool("is_variable", tag.IsVariable)
		if tag.IsVariable {
			event = event.Str("name", tag.Name).Strs("values", tag.Values)
		} else {
			event = event.Str("value", tag.Value)
		}
		event.Msg("Submission tag")
	}
	return nil
}

func (d *Log) Close() error {
	return nil
}
