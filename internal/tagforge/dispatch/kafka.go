package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// DefaultKafkaTopic 默认主题
const DefaultKafkaTopic = "tagforge.submissions"

// messageWriter kafka.Writer 中用到的方法
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka 将提交发布到 Kafka 主题，由消费者执行生成
type Kafka struct {
	writer messageWriter
	topic  string
}

// NewKafka 创建 Kafka 分发器
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka dispatcher requires at least one broker")
	}
	if topic == "" {
		topic = DefaultKafkaTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			ClientID: "tagforge",
		},
	}
	return newKafka(writer, topic), nil
}

func newKafka(writer messageWriter, topic string) *Kafka {
	return &Kafka{writer: writer, topic: topic}
}

func (d *Kafka) Dispatch(ctx context.Context, job *Job) error {
	value, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal submission %s: %w", job.SubmissionID, err)
	}

	msg := kafka.Message{
		Key:   []byte(job.SubmissionID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "workspace", Value: []byte(job.Workspace)},
		},
		Time: time.Now(),
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish submission %s: %w", job.SubmissionID, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("submission_id", job.SubmissionID).
		Str("topic", d.topic).
		Msg("Submission published successfully")
	return nil
}

func (d *Kafka) Close() error {
	return d.writer.Close()
}
