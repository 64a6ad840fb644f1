package tagset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
)

// 提交校验错误码
const (
	CodeNoTags                  = "NO_TAGS"
	CodeNotLoggedIn             = "NOT_LOGGED_IN"
	CodeTooManyVariableTags     = "TOO_MANY_VARIABLE_TAGS"
	CodeTooManyVariableValues   = "TOO_MANY_VARIABLE_VALUES"
	CodeMissingVariableValues   = "MISSING_VARIABLE_VALUES"
	CodeForbiddenTagCombination = "FORBIDDEN_TAG_COMBINATION"
)

// 不能同时出现的标签名
var forbiddenCombinations = [][2]string{{"废弃", "推荐"}}

// Validate 按顺序执行提交前校验，返回第一个失败项
// 变量标签数量最先检查，未登录用户也会先看到这一项
func Validate(tags []entity.Tag, values []entity.VariableValue, loggedIn bool) *entity.ValidationError {
	checks := []func() *entity.ValidationError{
		func() *entity.ValidationError { return CheckVariableTagsCount(tags) },
		func() *entity.ValidationError { return CheckHasTags(tags) },
		func() *entity.ValidationError { return CheckLoggedIn(loggedIn) },
		func() *entity.ValidationError { return CheckVariableValuesCount(tags, values) },
		func() *entity.ValidationError { return CheckForbiddenCombinations(tags) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// CheckHasTags 至少需要一个标签
func CheckHasTags(tags []entity.Tag) *entity.ValidationError {
	if len(tags) == 0 {
		return &entity.ValidationError{Code: CodeNoTags, Message: "没有可提交的标签"}
	}
	return nil
}

// CheckLoggedIn 需要登录
func CheckLoggedIn(loggedIn bool) *entity.ValidationError {
	if !loggedIn {
		return &entity.ValidationError{Code: CodeNotLoggedIn, Message: "请先登录后再提交内容"}
	}
	return nil
}

// CheckVariableTagsCount 变量标签最多 MaxVariableTags 个
func CheckVariableTagsCount(tags []entity.Tag) *entity.ValidationError {
	n := CountVariableTags(tags)
	if n > MaxVariableTags {
		return &entity.ValidationError{
			Code:    CodeTooManyVariableTags,
			Message: fmt.Sprintf("变量标签数量不能超过%d个，当前有 %d 个", MaxVariableTags, n),
		}
	}
	return nil
}

// CheckVariableValuesCount 每个变量标签需要 1 到 MaxVariableValues 个值
func CheckVariableValuesCount(tags []entity.Tag, values []entity.VariableValue) *entity.ValidationError {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v.TagID]++
	}
	for _, tag := range tags {
		if !tag.IsVariable {
			continue
		}
		label := tag.Name
		if label == "" {
			label = "ID:" + tag.ID
		}
		switch n := counts[tag.ID]; {
		case n > MaxVariableValues:
			return &entity.ValidationError{
				Code:    CodeTooManyVariableValues,
				Message: fmt.Sprintf("标签 %q 的变量值不能超过%d个", label, MaxVariableValues),
			}
		case n == 0:
			return &entity.ValidationError{
				Code:    CodeMissingVariableValues,
				Message: fmt.Sprintf("标签 %q 需要至少一个变量值", label),
			}
		}
	}
	return nil
}

// CheckForbiddenCombinations 检查不能同时出现的标签名，忽略大小写
func CheckForbiddenCombinations(tags []entity.Tag) *entity.ValidationError {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, strings.ToLower(tag.Name))
	}
	for _, pair := range forbiddenCombinations {
		if slices.Contains(names, strings.ToLower(pair[0])) && slices.Contains(names, strings.ToLower(pair[1])) {
			return &entity.ValidationError{
				Code:    CodeForbiddenTagCombination,
				Message: fmt.Sprintf("不能同时使用%q和%q标签", pair[0], pair[1]),
			}
		}
	}
	return nil
}

// CountVariableTags 变量标签数量
func CountVariableTags(tags []entity.Tag) int {
	n := 0
	for _, tag := range tags {
		if tag.IsVariable {
			n++
		}
	}
	return n
}
