package tagset

import (
	"strings"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
)

var polishValues = []string{"true", "false"}

// checkVariableName 校验用户输入的变量名，others 不包含正在编辑的标签
func checkVariableName(name string, others []entity.Tag) error {
	if name == "" {
		return apierror.ErrInvalidVariableName
	}
	if !IsVariableNameLengthValid(name) {
		return apierror.ErrVariableNameTooLong
	}
	if !IsVariableNameUnique(name, others) {
		return apierror.WithMessage(apierror.ErrVariableNameExists, "variable name %q already exists", name)
	}
	if IsReservedName(name) {
		return apierror.WithMessage(apierror.ErrReservedVariableName, "variable name %q is reserved", name)
	}
	return nil
}

// resolveVariableName 返回变量标签最终使用的名称
// 有预留名的类型使用预留名，且同类型只能有一个变量标签；其余类型使用用户输入的名称
func resolveVariableName(t entity.TagType, name string, others []entity.Tag) (string, error) {
	if !CanBeVariable(t) {
		return "", apierror.WithMessage(apierror.ErrVariableNotAllowed, "%s tags cannot be variables", DisplayName(t))
	}
	if HasReservedName(t) {
		if HasVariableOfType(t, others) {
			return "", apierror.WithMessage(apierror.ErrDuplicateVariableType, "a %s variable tag already exists", t)
		}
		reserved := ReservedName(t)
		if !IsVariableNameUnique(reserved, others) {
			return "", apierror.WithMessage(apierror.ErrVariableNameExists, "variable name %q already exists", reserved)
		}
		return reserved, nil
	}
	name = strings.TrimSpace(name)
	if err := checkVariableName(name, others); err != nil {
		return "", err
	}
	return name, nil
}

// seedValues 返回标签刚成为变量时的初始变量值（ID 未分配）
func seedValues(tag entity.Tag, first string) []entity.VariableValue {
	if tag.Type == entity.TagTypePolish {
		out := make([]entity.VariableValue, 0, len(polishValues))
		for _, v := range polishValues {
			out = append(out, entity.VariableValue{TagID: tag.ID, Value: v})
		}
		return out
	}
	v := entity.VariableValue{TagID: tag.ID, Value: first}
	if tag.Type == entity.TagTypeCharacter {
		v.UUID = tag.UUID
		v.Avatar = tag.Avatar
	}
	if tag.Type == entity.TagTypeCharacter || tag.Type == entity.TagTypeElement {
		v.Weight = tag.Weight
	}
	return []entity.VariableValue{v}
}

// keepTypeFields 清除不属于该类型的附加字段
func keepTypeFields(tag *entity.Tag) {
	if tag.Type != entity.TagTypeCharacter {
		tag.UUID = ""
		tag.Avatar = ""
		tag.HeatScore = nil
	}
	if tag.Type != entity.TagTypeCharacter && tag.Type != entity.TagTypeElement {
		tag.Weight = nil
	}
}

// NewTag 根据添加请求构造新标签及其初始变量值
// 返回的变量值 ID 为空，由调用方分配
func NewTag(id string, req entity.AddTagRequest, tags []entity.Tag, palette Palette) (entity.Tag, []entity.VariableValue, error) {
	if !req.Type.Valid() {
		return entity.Tag{}, nil, apierror.WithMessage(apierror.ErrInvalidParameter, "unknown tag type %q", req.Type)
	}

	tag := entity.Tag{
		ID:         id,
		Type:       req.Type,
		IsVariable: req.IsVariable,
		UUID:       req.UUID,
		Avatar:     req.Avatar,
		HeatScore:  req.HeatScore,
		Weight:     req.Weight,
	}

	if req.IsVariable {
		name, err := resolveVariableName(req.Type, req.Name, tags)
		if err != nil {
			return entity.Tag{}, nil, err
		}
		tag.Name = name
	}

	if !IsTypeUnique(req.Type, tags) {
		return entity.Tag{}, nil, apierror.WithMessage(apierror.ErrDuplicateTagType, "only one %s tag is allowed", req.Type)
	}

	if req.Type == entity.TagTypeCharacter && !req.IsVariable && strings.TrimSpace(req.UUID) == "" {
		return entity.Tag{}, nil, apierror.ErrCharacterRequired
	}

	tag.Value = req.Value
	if strings.TrimSpace(tag.Value) == "" {
		tag.Value = DefaultValue(req.Type)
	}
	if err := ValidateValue(tag.Type, tag.Value); err != nil {
		return entity.Tag{}, nil, err
	}

	tag.Color = req.Color
	if tag.Color == "" {
		tag.Color = palette.Color()
	}
	if req.IsVariable {
		from, to := palette.Gradient()
		if req.Color == "" {
			tag.Color = from
		}
		tag.UseGradient = true
		tag.GradientToColor = to
		if req.GradientToColor != "" {
			tag.GradientToColor = req.GradientToColor
		}
	}
	keepTypeFields(&tag)

	if !req.IsVariable {
		return tag, nil, nil
	}
	return tag, seedValues(tag, DefaultValue(tag.Type)), nil
}

// EditResult 编辑标签的结果
type EditResult struct {
	Tag entity.Tag
	// DropValues 为 true 时删除该标签的所有变量值
	DropValues bool
	// NewValues 需要新增的变量值（ID 未分配）
	NewValues []entity.VariableValue
}

// ApplyEdit 将编辑弹窗提交的标签应用到原标签上
// 类型不可修改；静态变为变量时生成渐变色和初始值，变量变为静态时删除所有变量值
func ApplyEdit(original, updated entity.Tag, tags []entity.Tag, palette Palette) (EditResult, error) {
	others := make([]entity.Tag, 0, len(tags))
	for _, t := range tags {
		if t.ID != original.ID {
			others = append(others, t)
		}
	}

	next := updated
	next.ID = original.ID
	next.Type = original.Type

	if next.IsVariable {
		name := next.Name
		// 已经是变量的预留名标签不受同类型检查影响
		if original.IsVariable && HasReservedName(next.Type) {
			name = ReservedName(next.Type)
		} else {
			var err error
			if name, err = resolveVariableName(next.Type, next.Name, others); err != nil {
				return EditResult{}, err
			}
		}
		next.Name = name
	} else {
		next.Name = ""
	}

	if strings.TrimSpace(next.Value) == "" {
		next.Value = DefaultValue(next.Type)
	}
	if err := ValidateValue(next.Type, next.Value); err != nil {
		return EditResult{}, err
	}

	result := EditResult{}
	switch {
	case !original.IsVariable && next.IsVariable:
		from, to := palette.Gradient()
		next.Color = from
		next.UseGradient = true
		next.GradientToColor = to
		result.NewValues = seedValues(next, next.Value)
	case original.IsVariable && !next.IsVariable:
		next.Color = original.Color
		next.UseGradient = false
		next.GradientToColor = ""
		result.DropValues = true
	default:
		next.Color = original.Color
		next.UseGradient = original.UseGradient
		next.GradientToColor = original.GradientToColor
	}

	if next.Type == entity.TagTypeCharacter {
		if original.UUID != "" {
			next.UUID = original.UUID
		}
		if original.Avatar != "" {
			next.Avatar = original.Avatar
		}
		if original.HeatScore != nil && *original.HeatScore != 0 {
			next.HeatScore = original.HeatScore
		}
		if !next.IsVariable && strings.TrimSpace(next.UUID) == "" {
			return EditResult{}, apierror.ErrCharacterRequired
		}
	}
	keepTypeFields(&next)

	result.Tag = next
	return result, nil
}

// ToggleVariable 返回切换变量状态后的待确认标签，不做保存
func ToggleVariable(tag entity.Tag, tags []entity.Tag) (entity.Tag, error) {
	if !CanBeVariable(tag.Type) {
		return entity.Tag{}, apierror.WithMessage(apierror.ErrVariableNotAllowed, "%s tags cannot be variables", DisplayName(tag.Type))
	}

	next := tag
	if tag.IsVariable {
		next.IsVariable = false
		next.Name = ""
		return next, nil
	}

	if HasReservedName(tag.Type) && HasVariableOfType(tag.Type, tags) {
		return entity.Tag{}, apierror.WithMessage(apierror.ErrDuplicateVariableType, "a %s variable tag already exists", tag.Type)
	}
	next.IsVariable = true
	next.Name = ReservedName(tag.Type)
	return next, nil
}

// NewValue 为变量标签构造新的变量值（ID 未分配）
func NewValue(tag entity.Tag, req entity.AddValueRequest) (entity.VariableValue, error) {
	if !tag.IsVariable {
		return entity.VariableValue{}, apierror.ErrNotVariable
	}
	if tag.Type == entity.TagTypePolish {
		return entity.VariableValue{}, apierror.ErrPolishValueRestricted
	}

	v := entity.VariableValue{TagID: tag.ID, Value: DefaultValue(tag.Type)}
	if req.Value != nil {
		v.Value = *req.Value
	}
	if err := ValidateValue(tag.Type, v.Value); err != nil {
		return entity.VariableValue{}, err
	}

	if tag.Type == entity.TagTypeCharacter {
		v.UUID = tag.UUID
		v.Avatar = tag.Avatar
		if req.UUID != "" {
			v.UUID = req.UUID
			v.Avatar = req.Avatar
		}
	}
	if tag.Type == entity.TagTypeCharacter || tag.Type == entity.TagTypeElement {
		v.Weight = entity.Float64(1)
		if req.Weight != nil {
			v.Weight = req.Weight
		}
		if tag.Type == entity.TagTypeElement && req.UUID != "" {
			v.UUID = req.UUID
			v.Avatar = req.Avatar
		}
	}
	return v, nil
}

// UpdateValue 更新变量值
func UpdateValue(tag entity.Tag, v entity.VariableValue, req entity.UpdateValueRequest) (entity.VariableValue, error) {
	if err := ValidateValue(tag.Type, req.Value); err != nil {
		return entity.VariableValue{}, err
	}
	v.Value = req.Value
	if req.UUID != nil {
		v.UUID = *req.UUID
	}
	if req.Avatar != nil {
		v.Avatar = *req.Avatar
	}
	if req.Weight != nil {
		v.Weight = req.Weight
	}
	return v, nil
}

// CheckRemoveValue 润色变量至少保留 true 和 false 两个值
func CheckRemoveValue(tag entity.Tag, values []entity.VariableValue) error {
	if tag.Type == entity.TagTypePolish && len(ValuesOf(values, tag.ID)) <= len(polishValues) {
		return apierror.ErrPolishValueRestricted
	}
	return nil
}

// CheckDuplicateValue 润色变量的值不能复制
func CheckDuplicateValue(tag entity.Tag) error {
	if tag.Type == entity.TagTypePolish {
		return apierror.ErrPolishValueRestricted
	}
	return nil
}

// CheckReorderValues 润色变量的值不能排序
func CheckReorderValues(tag entity.Tag) error {
	if tag.Type == entity.TagTypePolish {
		return apierror.ErrPolishValueRestricted
	}
	return nil
}

// BasePreset 返回基础预设标签（ID 未分配）
func BasePreset(palette Palette) []entity.Tag {
	preset := []struct {
		t     entity.TagType
		value string
	}{
		{entity.TagTypePrompt, "1girl"},
		{entity.TagTypeRatio, "3:5"},
		{entity.TagTypeBatch, "1"},
		{entity.TagTypeSeed, "0"},
		{entity.TagTypePolish, "false"},
	}
	out := make([]entity.Tag, 0, len(preset))
	for _, p := range preset {
		out = append(out, entity.Tag{
			Type:  p.t,
			Color: palette.Color(),
			Value: p.value,
		})
	}
	return out
}
