package tagset

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
)

// rawSnapshot 导入文件的外层结构，字段保持原始 JSON 以便逐项校验
type rawSnapshot struct {
	Tags           *[]json.RawMessage `json:"tags"`
	VariableValues *[]json.RawMessage `json:"variableValues"`
	GlobalSettings json.RawMessage    `json:"globalSettings"`
	ExportDate     string             `json:"exportDate"`
	Version        string             `json:"version"`
}

// ParsedSnapshot 解析并清洗后的配置
type ParsedSnapshot struct {
	Tags           []entity.Tag
	VariableValues []entity.VariableValue
	// Settings 为 nil 表示文件中没有可用的设置
	Settings      *SettingsPatch
	DroppedTags   int
	DroppedValues int
}

// SettingsPatch 导入文件中有效的设置字段
type SettingsPatch struct {
	MaxThreads *int
	XToken     *string
}

// Merge 将 patch 合并到 prev：有效的 maxThreads 和非空 xToken 覆盖原值
func (p *SettingsPatch) Merge(prev entity.GlobalSettings) entity.GlobalSettings {
	if p == nil {
		return prev
	}
	if p.MaxThreads != nil {
		prev.MaxThreads = *p.MaxThreads
	}
	if p.XToken != nil {
		prev.XToken = *p.XToken
	}
	return prev
}

// ParseSnapshot 解析导入的配置文件
// tags 和 variableValues 必须是数组，其中格式不正确的项被丢弃
func ParseSnapshot(data []byte) (*ParsedSnapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apierror.WrapError(apierror.ErrInvalidConfig, "配置文件格式无效或已损坏", err)
	}
	if raw.Tags == nil || raw.VariableValues == nil {
		return nil, apierror.WithMessage(apierror.ErrInvalidConfig, "配置文件缺少 tags 或 variableValues 数组")
	}

	tags, droppedTags := SanitizeTags(*raw.Tags)
	values, droppedValues := SanitizeVariableValues(*raw.VariableValues, tags)

	return &ParsedSnapshot{
		Tags:           tags,
		VariableValues: values,
		Settings:       SanitizeSettings(raw.GlobalSettings),
		DroppedTags:    droppedTags,
		DroppedValues:  droppedValues,
	}, nil
}

// SanitizeTags 丢弃格式不正确的标签，ID 重复时保留第一个
func SanitizeTags(items []json.RawMessage) ([]entity.Tag, int) {
	out := make([]entity.Tag, 0, len(items))
	seen := make(map[string]struct{})
	dropped := 0
	for _, item := range items {
		tag, err := sanitizeTag(item)
		if err != nil {
			dropped++
			continue
		}
		if _, dup := seen[tag.ID]; dup {
			dropped++
			continue
		}
		seen[tag.ID] = struct{}{}
		out = append(out, tag)
	}
	return out, dropped
}

func sanitizeTag(item json.RawMessage) (entity.Tag, error) {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return entity.Tag{}, fmt.Errorf("tag is not an object")
	}
	for _, key := range []string{"id", "type", "color", "value"} {
		if s, ok := fields[key].(string); !ok || (key == "id" && s == "") {
			return entity.Tag{}, fmt.Errorf("tag field %s must be a string", key)
		}
	}
	if _, ok := fields["isVariable"].(bool); !ok {
		return entity.Tag{}, fmt.Errorf("tag field isVariable must be a boolean")
	}

	var tag entity.Tag
	if err := json.Unmarshal(item, &tag); err != nil {
		return entity.Tag{}, fmt.Errorf("decode tag: %w", err)
	}
	if !tag.Type.Valid() {
		return entity.Tag{}, fmt.Errorf("unknown tag type %q", tag.Type)
	}
	if !tag.IsVariable {
		tag.Name = ""
	}
	return tag, nil
}

// SanitizeVariableValues 丢弃格式不正确或不属于 tags 的变量值，ID 重复时保留第一个
func SanitizeVariableValues(items []json.RawMessage, tags []entity.Tag) ([]entity.VariableValue, int) {
	tagIDs := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagIDs[tag.ID] = struct{}{}
	}

	out := make([]entity.VariableValue, 0, len(items))
	seen := make(map[string]struct{})
	dropped := 0
	for _, item := range items {
		v, err := sanitizeValue(item)
		if err != nil {
			dropped++
			continue
		}
		if _, ok := tagIDs[v.TagID]; !ok {
			dropped++
			continue
		}
		if _, dup := seen[v.ID]; dup {
			dropped++
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out, dropped
}

func sanitizeValue(item json.RawMessage) (entity.VariableValue, error) {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return entity.VariableValue{}, fmt.Errorf("value is not an object")
	}
	for _, key := range []string{"id", "tagId", "value"} {
		if s, ok := fields[key].(string); !ok || (key != "value" && s == "") {
			return entity.VariableValue{}, fmt.Errorf("value field %s must be a string", key)
		}
	}

	var v entity.VariableValue
	if err := json.Unmarshal(item, &v); err != nil {
		return entity.VariableValue{}, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

// SanitizeSettings 返回设置中可用的字段，没有可用字段时返回 nil
func SanitizeSettings(raw json.RawMessage) *SettingsPatch {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}

	patch := &SettingsPatch{}
	if n, ok := fields["maxThreads"].(float64); ok && n == math.Trunc(n) &&
		n >= entity.MinMaxThreads && n <= entity.MaxMaxThreads {
		mt := int(n)
		patch.MaxThreads = &mt
	}
	if s, ok := fields["xToken"].(string); ok && s != "" {
		patch.XToken = &s
	}
	if patch.MaxThreads == nil && patch.XToken == nil {
		return nil
	}
	return patch
}

// Snapshot 构造导出的配置文件
func Snapshot(state entity.WorkspaceState, exportDate string) entity.ConfigSnapshot {
	tags := state.Tags
	if tags == nil {
		tags = []entity.Tag{}
	}
	values := state.VariableValues
	if values == nil {
		values = []entity.VariableValue{}
	}
	return entity.ConfigSnapshot{
		Tags:           tags,
		VariableValues: values,
		GlobalSettings: state.GlobalSettings,
		ExportDate:     exportDate,
		Version:        entity.ConfigVersion,
	}
}
