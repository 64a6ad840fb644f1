package tagset

import (
	"github.com/jimyag/tagforge/internal/tagforge/entity"
)

// VariableGroup 一个变量名及其所有取值
type VariableGroup struct {
	Name   string
	Values []entity.VariableValue
}

// GroupVariables 按变量名对变量值分组，组的顺序为变量标签在 tags 中首次出现的顺序
// 没有名称的变量标签和不属于变量标签的值被忽略
func GroupVariables(tags []entity.Tag, values []entity.VariableValue) []VariableGroup {
	nameByTagID := make(map[string]string)
	index := make(map[string]int)
	groups := make([]VariableGroup, 0)
	for _, tag := range tags {
		if !tag.IsVariable || tag.Name == "" {
			continue
		}
		nameByTagID[tag.ID] = tag.Name
		if _, ok := index[tag.Name]; !ok {
			index[tag.Name] = len(groups)
			groups = append(groups, VariableGroup{Name: tag.Name})
		}
	}
	for _, v := range values {
		name, ok := nameByTagID[v.TagID]
		if !ok {
			continue
		}
		g := &groups[index[name]]
		g.Values = append(g.Values, v)
	}
	return groups
}

// BatchSize 返回第一个非变量 batch 标签的值，无效时为 1
func BatchSize(tags []entity.Tag) int {
	for _, tag := range tags {
		if tag.Type != entity.TagTypeBatch || tag.IsVariable {
			continue
		}
		if n, ok := parseLeadingInt(tag.Value); ok && n > 0 {
			return n
		}
		return 1
	}
	return 1
}

// TotalImages 计算将生成的图片总数：batch 值乘以每个变量取值数量
func TotalImages(tags []entity.Tag, values []entity.VariableValue) int {
	total := BatchSize(tags)
	for _, g := range GroupVariables(tags, values) {
		if len(g.Values) > 0 {
			total *= len(g.Values)
		}
	}
	return total
}

// Expand 枚举变量取值的笛卡尔积，最后一个变量变化最快
// limit 大于 0 时最多返回 limit 个组合
func Expand(tags []entity.Tag, values []entity.VariableValue, limit int) []entity.Combination {
	groups := make([]VariableGroup, 0)
	for _, g := range GroupVariables(tags, values) {
		if len(g.Values) > 0 {
			groups = append(groups, g)
		}
	}

	out := make([]entity.Combination, 0)
	if len(groups) == 0 {
		return out
	}

	idx := make([]int, len(groups))
	for {
		if limit > 0 && len(out) >= limit {
			return out
		}
		combo := make(entity.Combination, len(groups))
		for i, g := range groups {
			combo[g.Name] = g.Values[idx[i]].Value
		}
		out = append(out, combo)

		// 进位
		i := len(groups) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(groups[i].Values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}

// parseLeadingInt 解析字符串开头的整数，忽略前导空白和之后的非数字字符
func parseLeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n > (1<<31-1)/10 {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
