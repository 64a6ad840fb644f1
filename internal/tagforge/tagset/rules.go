// Package tagset 实现标签集合的业务规则，不做任何 I/O
package tagset

import (
	"strings"
	"unicode/utf8"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
)

const (
	// MaxVariableNameLength 变量名最大长度（按字符计）
	MaxVariableNameLength = 12
	// DefaultTruncateLength 显示文本默认截断长度
	DefaultTruncateLength = 23

	// MaxVariableTags 一次提交最多的变量标签数
	MaxVariableTags = 6
	// MaxVariableValues 每个变量标签最多的变量值数
	MaxVariableValues = 10

	// EndPlaceholderID 拖拽到末尾占位元素时的 over ID
	EndPlaceholderID = "end-placeholder"
)

// Ratios 可选的图像比例
var Ratios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "3:5", "5:3", "16:9", "9:16"}

var reservedNames = map[entity.TagType]string{
	entity.TagTypeRatio:   "比例测试",
	entity.TagTypeSeed:    "种子测试",
	entity.TagTypePolish:  "润色测试",
	entity.TagTypeElement: "元素测试",
}

var displayNames = map[entity.TagType]string{
	entity.TagTypePrompt:    "提示词",
	entity.TagTypeRatio:     "比例",
	entity.TagTypeBatch:     "批次",
	entity.TagTypeSeed:      "种子",
	entity.TagTypePolish:    "润色",
	entity.TagTypeCharacter: "角色",
	entity.TagTypeElement:   "元素",
}

// ReservedName 返回类型的预留变量名，没有时返回空字符串
func ReservedName(t entity.TagType) string {
	return reservedNames[t]
}

// HasReservedName 该类型变为变量时是否自动使用预留变量名
func HasReservedName(t entity.TagType) bool {
	_, ok := reservedNames[t]
	return ok
}

// IsReservedName 名称是否与任一预留变量名冲突
func IsReservedName(name string) bool {
	name = strings.TrimSpace(name)
	for _, n := range reservedNames {
		if n == name {
			return true
		}
	}
	return false
}

// DisplayName 返回标签类型的显示名称
func DisplayName(t entity.TagType) string {
	if n, ok := displayNames[t]; ok {
		return n
	}
	return string(t)
}

// DefaultValue 返回标签类型的默认值
func DefaultValue(t entity.TagType) string {
	switch t {
	case entity.TagTypeRatio:
		return "3:5"
	case entity.TagTypeBatch:
		return "1"
	case entity.TagTypeSeed:
		return "0"
	case entity.TagTypePolish:
		return "false"
	default:
		return ""
	}
}

// CanBeVariable 该类型是否允许设为变量
func CanBeVariable(t entity.TagType) bool {
	return t != entity.TagTypeBatch
}

// IsMultiple 该类型是否允许存在多个标签
func IsMultiple(t entity.TagType) bool {
	return t == entity.TagTypePrompt || t == entity.TagTypeCharacter || t == entity.TagTypeElement
}

// IsTypeUnique 在 tags 中添加 t 类型的标签后是否仍满足类型唯一
func IsTypeUnique(t entity.TagType, tags []entity.Tag) bool {
	if IsMultiple(t) {
		return true
	}
	for _, tag := range tags {
		if tag.Type == t {
			return false
		}
	}
	return true
}

// IsVariableNameUnique 变量名在 tags 的变量标签中是否唯一
func IsVariableNameUnique(name string, tags []entity.Tag) bool {
	for _, tag := range tags {
		if tag.IsVariable && tag.Name == name {
			return false
		}
	}
	return true
}

// IsVariableNameLengthValid 变量名长度是否合法
func IsVariableNameLengthValid(name string) bool {
	return utf8.RuneCountInString(name) <= MaxVariableNameLength
}

// HasVariableOfType tags 中是否已有 t 类型的变量标签
func HasVariableOfType(t entity.TagType, tags []entity.Tag) bool {
	for _, tag := range tags {
		if tag.IsVariable && tag.Type == t {
			return true
		}
	}
	return false
}

// Truncate 截断文本，超过 n 个字符时追加省略号
func Truncate(text string, n int) string {
	if n <= 0 {
		n = DefaultTruncateLength
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}

// DisplayText 返回标签在列表中的显示文本
func DisplayText(tag entity.Tag) string {
	if tag.IsVariable {
		return tag.Name + " [变量]"
	}
	switch tag.Type {
	case entity.TagTypePrompt, entity.TagTypeCharacter, entity.TagTypeElement:
		return Truncate(tag.Value, DefaultTruncateLength)
	}
	return DisplayName(tag.Type) + ": " + Truncate(tag.Value, DefaultTruncateLength)
}

// FindTag 按 ID 查找标签
func FindTag(tags []entity.Tag, id string) (entity.Tag, int, bool) {
	for i, tag := range tags {
		if tag.ID == id {
			return tag, i, true
		}
	}
	return entity.Tag{}, -1, false
}

// ValuesOf 返回属于 tagID 的变量值，保持原有顺序
func ValuesOf(values []entity.VariableValue, tagID string) []entity.VariableValue {
	out := make([]entity.VariableValue, 0)
	for _, v := range values {
		if v.TagID == tagID {
			out = append(out, v)
		}
	}
	return out
}
