package tagset

import (
	"strings"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
)

// BuildSubmitData 组装发送给生成后端的数据
// 变量标签附带其所有值，variables 以变量名分组保留值 ID
func BuildSubmitData(username, taskName string, tags []entity.Tag, values []entity.VariableValue,
	settings entity.GlobalSettings, createdAt string,
) entity.SubmitData {
	if strings.TrimSpace(taskName) == "" {
		taskName = entity.DefaultTaskName
	}

	names := make(map[string]string)
	for _, tag := range tags {
		if tag.IsVariable && tag.Name != "" {
			names[tag.ID] = tag.Name
		}
	}

	variables := make(map[string][]entity.SubmitVariable)
	byTag := make(map[string][]string)
	for _, v := range values {
		byTag[v.TagID] = append(byTag[v.TagID], v.Value)
		if name, ok := names[v.TagID]; ok {
			variables[name] = append(variables[name], entity.SubmitVariable{ID: v.ID, Value: v.Value})
		}
	}

	submitTags := make([]entity.SubmitTag, 0, len(tags))
	for _, tag := range tags {
		st := entity.SubmitTag{Tag: tag}
		if tag.IsVariable {
			st.Values = byTag[tag.ID]
			if st.Values == nil {
				st.Values = []string{}
			}
		}
		submitTags = append(submitTags, st)
	}

	return entity.SubmitData{
		Username:  username,
		TaskName:  taskName,
		Tags:      submitTags,
		Variables: variables,
		Settings:  settings,
		CreatedAt: createdAt,
	}
}
