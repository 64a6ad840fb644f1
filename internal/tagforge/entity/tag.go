// Package entity 定义业务实体
package entity

// TagType 标签类型
type TagType string

const (
	TagTypePrompt    TagType = "prompt"
	TagTypeRatio     TagType = "ratio"
	TagTypeBatch     TagType = "batch"
	TagTypePolish    TagType = "polish"
	TagTypeSeed      TagType = "seed"
	TagTypeCharacter TagType = "character"
	TagTypeElement   TagType = "element"
)

// TagTypes 所有标签类型，按界面展示顺序
var TagTypes = []TagType{
	TagTypePrompt,
	TagTypeRatio,
	TagTypeBatch,
	TagTypeSeed,
	TagTypePolish,
	TagTypeCharacter,
	TagTypeElement,
}

// Valid 是否为已知的标签类型
func (t TagType) Valid() bool {
	for _, tt := range TagTypes {
		if tt == t {
			return true
		}
	}
	return false
}

// Tag 标签
type Tag struct {
	ID              string   `json:"id"`                        // Tag ID: tag-{递增数字}
	Name            string   `json:"name,omitempty"`            // 变量名称，只有变量标签需要
	Type            TagType  `json:"type"`                      // 标签类型
	IsVariable      bool     `json:"isVariable"`                // 是否为变量标签
	Color           string   `json:"color"`                     // 颜色
	GradientToColor string   `json:"gradientToColor,omitempty"` // 渐变终点颜色
	UseGradient     bool     `json:"useGradient"`               // 是否使用渐变
	Value           string   `json:"value"`                     // 标签值
	UUID            string   `json:"uuid,omitempty"`            // 角色 UUID
	Avatar          string   `json:"avatar,omitempty"`          // 角色头像
	HeatScore       *float64 `json:"heat_score,omitempty"`      // 热度分数
	Weight          *float64 `json:"weight,omitempty"`          // 权重，仅角色和元素
}

// VariableValue 变量标签的一个候选值
type VariableValue struct {
	ID     string   `json:"id"`               // Value ID: val-{递增数字}
	TagID  string   `json:"tagId"`            // 所属标签 ID
	Value  string   `json:"value"`            // 值
	UUID   string   `json:"uuid,omitempty"`   // 角色 UUID
	Avatar string   `json:"avatar,omitempty"` // 角色头像
	Weight *float64 `json:"weight,omitempty"` // 权重，仅角色和元素
}

// Float64 返回 v 的指针
func Float64(v float64) *float64 {
	return &v
}

// AddTagRequest 添加标签请求
type AddTagRequest struct {
	Name            string   `json:"name"`
	Type            TagType  `json:"type" binding:"omitempty,tagtype"`
	IsVariable      bool     `json:"isVariable"`
	Color           string   `json:"color"`
	GradientToColor string   `json:"gradientToColor"`
	UseGradient     bool     `json:"useGradient"`
	Value           string   `json:"value"`
	UUID            string   `json:"uuid"`
	Avatar          string   `json:"avatar"`
	HeatScore       *float64 `json:"heat_score"`
	Weight          *float64 `json:"weight"`
}

// UpdateTagRequest 编辑标签请求，对应编辑弹窗中的完整标签
type UpdateTagRequest struct {
	TagID string `json:"-"`
	Tag   Tag    `json:"tag"`
}

// ToggleVariableResponse 切换变量状态的预览结果
// 返回的标签尚未保存，需要通过 UpdateTag 确认
type ToggleVariableResponse struct {
	Tag *Tag `json:"tag"`
}

// ReorderTagsRequest 拖拽排序请求
type ReorderTagsRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

// AddValueRequest 添加变量值请求，值为空时使用类型默认值
type AddValueRequest struct {
	Value  *string  `json:"value"`
	UUID   string   `json:"uuid"`
	Avatar string   `json:"avatar"`
	Weight *float64 `json:"weight"`
}

// UpdateValueRequest 更新变量值请求
type UpdateValueRequest struct {
	Value  string   `json:"value"`
	UUID   *string  `json:"uuid"`
	Avatar *string  `json:"avatar"`
	Weight *float64 `json:"weight"`
}

// ReorderValuesRequest 变量值排序请求，ValueIDs 为该标签变量值的新顺序
type ReorderValuesRequest struct {
	ValueIDs []string `json:"valueIds"`
}

// TagResponse 标签及其变量值
type TagResponse struct {
	Tag    *Tag            `json:"tag"`
	Values []VariableValue `json:"values"`
}

// TagTypeInfo 标签类型说明
type TagTypeInfo struct {
	Type          TagType `json:"type"`
	DisplayName   string  `json:"displayName"`
	CanBeVariable bool    `json:"canBeVariable"`
	Multiple      bool    `json:"multiple"`
	DefaultValue  string  `json:"defaultValue"`
	ReservedName  string  `json:"reservedName,omitempty"`
}
