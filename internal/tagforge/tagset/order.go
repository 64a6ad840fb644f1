package tagset

import (
	"slices"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
)

// Move 处理拖拽结束：overID 为空或为末尾占位时移动到末尾，否则移动到 overID 所在位置
func Move(tags []entity.Tag, activeID, overID string) ([]entity.Tag, error) {
	_, from, ok := FindTag(tags, activeID)
	if !ok {
		return nil, apierror.ErrTagNotFound
	}

	out := slices.Clone(tags)
	if overID == "" || overID == EndPlaceholderID {
		item := out[from]
		out = append(out[:from], out[from+1:]...)
		return append(out, item), nil
	}

	_, to, ok := FindTag(tags, overID)
	if !ok {
		return nil, apierror.WithMessage(apierror.ErrTagNotFound, "drop target %s does not exist", overID)
	}
	return arrayMove(out, from, to), nil
}

func arrayMove[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}
	item := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, item)
}

// ReorderValues 将 tagID 的变量值按 order 重新排列并放到末尾，其余值保持原有顺序
// order 必须恰好包含该标签的所有变量值 ID
func ReorderValues(values []entity.VariableValue, tagID string, order []string) ([]entity.VariableValue, error) {
	own := make(map[string]entity.VariableValue)
	others := make([]entity.VariableValue, 0, len(values))
	for _, v := range values {
		if v.TagID == tagID {
			own[v.ID] = v
		} else {
			others = append(others, v)
		}
	}
	if len(order) != len(own) {
		return nil, apierror.WithMessage(apierror.ErrInvalidParameter,
			"expected %d value ids, got %d", len(own), len(order))
	}

	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		v, ok := own[id]
		if !ok {
			return nil, apierror.WithMessage(apierror.ErrValueNotFound, "value %s does not belong to tag %s", id, tagID)
		}
		if _, dup := seen[id]; dup {
			return nil, apierror.WithMessage(apierror.ErrInvalidParameter, "duplicate value id %s", id)
		}
		seen[id] = struct{}{}
		others = append(others, v)
	}
	return others, nil
}

// InsertAfter 将 v 插入到 afterID 之后，找不到 afterID 时追加到末尾
func InsertAfter(values []entity.VariableValue, afterID string, v entity.VariableValue) []entity.VariableValue {
	for i, cur := range values {
		if cur.ID == afterID {
			return slices.Insert(slices.Clone(values), i+1, v)
		}
	}
	return append(slices.Clone(values), v)
}
