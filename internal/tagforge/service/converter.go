// Package service 提供业务逻辑层的服务实现
package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/repository/model"
	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
)

// tagEntityToModel 将 entity.Tag 转换为 model.Tag
func tagEntityToModel(workspace string, position int, e *entity.Tag) (*model.Tag, error) {
	m := &model.Tag{}
	if err := copier.Copy(m, e); err != nil {
		return nil, err
	}
	m.Workspace = workspace
	m.TagID = e.ID
	m.Position = position

	// 处理时间字段
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	return m, nil
}

// tagModelToEntity 将 model.Tag 转换为 entity.Tag
func tagModelToEntity(m *model.Tag) (*entity.Tag, error) {
	e := &entity.Tag{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	e.ID = m.TagID
	return e, nil
}

// applyTagToModel 将编辑后的标签写回已有记录，保留位置和创建时间
func applyTagToModel(m *model.Tag, e *entity.Tag) error {
	position, createdAt, id := m.Position, m.CreatedAt, m.ID
	next, err := tagEntityToModel(m.Workspace, position, e)
	if err != nil {
		return err
	}
	*m = *next
	m.ID = id
	m.CreatedAt = createdAt
	return nil
}

// valueEntityToModel 将 entity.VariableValue 转换为 model.VariableValue
func valueEntityToModel(workspace string, position int, e *entity.VariableValue) (*model.VariableValue, error) {
	m := &model.VariableValue{}
	if err := copier.Copy(m, e); err != nil {
		return nil, err
	}
	m.Workspace = workspace
	m.ValueID = e.ID
	m.Position = position

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	return m, nil
}

// valueModelToEntity 将 model.VariableValue 转换为 entity.VariableValue
func valueModelToEntity(m *model.VariableValue) (*entity.VariableValue, error) {
	e := &entity.VariableValue{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	e.ID = m.ValueID
	return e, nil
}

// settingsModelToEntity 将 model.GlobalSettings 转换为 entity.GlobalSettings
func settingsModelToEntity(m *model.GlobalSettings) entity.GlobalSettings {
	return entity.GlobalSettings{
		MaxThreads: m.MaxThreads,
		XToken:     m.XToken,
	}
}

// settingsEntityToModel 将 entity.GlobalSettings 转换为 model.GlobalSettings
func settingsEntityToModel(workspace string, e entity.GlobalSettings) *model.GlobalSettings {
	return &model.GlobalSettings{
		Workspace:  workspace,
		MaxThreads: e.MaxThreads,
		XToken:     e.XToken,
		UpdatedAt:  time.Now(),
	}
}

// submissionEntityToModel 将 entity.Submission 转换为 model.Submission
func submissionEntityToModel(e *entity.Submission) (*model.Submission, error) {
	m := &model.Submission{}
	if err := copier.Copy(m, e); err != nil {
		return nil, err
	}
	m.SubmissionID = e.ID

	if e.Payload != nil {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, err
		}
		m.Payload = datatypes.JSON(payload)
	}

	// 处理时间字段
	if e.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
			m.CreatedAt = t
		} else {
			m.CreatedAt = time.Now()
		}
	} else {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = time.Now()

	return m, nil
}

// submissionModelToEntity 将 model.Submission 转换为 entity.Submission
func submissionModelToEntity(m *model.Submission) (*entity.Submission, error) {
	e := &entity.Submission{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	e.ID = m.SubmissionID

	if len(m.Payload) > 0 {
		var payload entity.SubmitData
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			return nil, err
		}
		e.Payload = &payload
	}

	// 处理时间字段
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	e.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)

	return e, nil
}

// valueModelsToEntities 批量转换变量值
func valueModelsToEntities(models []*model.VariableValue) ([]entity.VariableValue, error) {
	values := make([]entity.VariableValue, 0, len(models))
	for _, m := range models {
		v, err := valueModelToEntity(m)
		if err != nil {
			return nil, fmt.Errorf("convert value %s: %w", m.ValueID, err)
		}
		values = append(values, *v)
	}
	return values, nil
}
