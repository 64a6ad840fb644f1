package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// ID 前缀
const (
	PrefixTag        = "tag"
	PrefixValue      = "val"
	PrefixSubmission = "sub"
)

// Generator 递增 ID 生成器
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// DefaultGenerator 返回默认的 ID 生成器
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = New()
	})
	return defaultGenerator
}

// New 创建新的 ID 生成器
func New() *Generator {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if sf == nil {
		// 无法获取机器 ID 时（例如没有私有 IP），固定使用 1
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			MachineID: func() (uint16, error) { return 1, nil },
		})
	}
	return &Generator{sf: sf}
}

func (g *Generator) generateIDWithPrefix(prefix string) (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("generate %s ID: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%d", prefix, id), nil
}

// GenerateTagID 生成标签 ID（格式：tag-{递增 ID}）
func (g *Generator) GenerateTagID() (string, error) {
	return g.generateIDWithPrefix(PrefixTag)
}

// GenerateValueID 生成变量值 ID（格式：val-{递增 ID}）
func (g *Generator) GenerateValueID() (string, error) {
	return g.generateIDWithPrefix(PrefixValue)
}

// GenerateSubmissionID 生成提交记录 ID（格式：sub-{递增 ID}）
func (g *Generator) GenerateSubmissionID() (string, error) {
	return g.generateIDWithPrefix(PrefixSubmission)
}

// GenerateTagID 使用默认生成器生成标签 ID
func GenerateTagID() (string, error) {
	return DefaultGenerator().GenerateTagID()
}

// GenerateValueID 使用默认生成器生成变量值 ID
func GenerateValueID() (string, error) {
	return DefaultGenerator().GenerateValueID()
}

// GenerateSubmissionID 使用默认生成器生成提交记录 ID
func GenerateSubmissionID() (string, error) {
	return DefaultGenerator().GenerateSubmissionID()
}
