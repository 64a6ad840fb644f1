package repository

import (
	"context"

	"github.com/jimyag/tagforge/internal/tagforge/repository/model"
	"gorm.io/gorm"
)

// VariableValueRepository 变量值仓库接口
type VariableValueRepository interface {
	Create(ctx context.Context, value *model.VariableValue) error
	CreateBatch(ctx context.Context, values []*model.VariableValue) error
	Get(ctx context.Context, workspace, valueID string) (*model.VariableValue, error)
	List(ctx context.Context, workspace string) ([]*model.VariableValue, error)
	ListByTag(ctx context.Context, workspace, tagID string) ([]*model.VariableValue, error)
	Update(ctx context.Context, value *model.VariableValue) error
	Delete(ctx context.Context, workspace, valueID string) error
	DeleteByTag(ctx context.Context, workspace, tagID string) error
	DeleteByWorkspace(ctx context.Context, workspace string) error
	NextPosition(ctx context.Context, workspace string) (int, error)
	SetPositions(ctx context.Context, workspace string, valueIDs []string) error
}

type variableValueRepository struct {
	db *gorm.DB
}

// NewVariableValueRepository 创建变量值仓库
func NewVariableValueRepository(db *gorm.DB) VariableValueRepository {
	return &variableValueRepository{db: db}
}

// Create 创建变量值
func (r *variableValueRepository) Create(ctx context.Context, value *model.VariableValue) error {
	return r.db.WithContext(ctx).Create(value).Error
}

// CreateBatch 批量创建变量值
func (r *variableValueRepository) CreateBatch(ctx context.Context, values []*model.VariableValue) error {
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(values).Error
}

// Get 获取变量值，不存在时返回 gorm.ErrRecordNotFound
func (r *variableValueRepository) Get(ctx context.Context, workspace, valueID string) (*model.VariableValue, error) {
	var value model.VariableValue
	if err := r.db.WithContext(ctx).
		Where("workspace = ? AND value_id = ?", workspace, valueID).
		First(&value).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

// List 按位置顺序列出工作区的所有变量值
func (r *variableValueRepository) List(ctx context.Context, workspace string) ([]*model.VariableValue, error) {
	var values []*model.VariableValue
	if err := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("position ASC, id ASC").
		Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// ListByTag 按位置顺序列出标签的变量值
func (r *variableValueRepository) ListByTag(ctx context.Context, workspace, tagID string) ([]*model.VariableValue, error) {
	var values []*model.VariableValue
	if err := r.db.WithContext(ctx).
		Where("workspace = ? AND tag_id = ?", workspace, tagID).
		Order("position ASC, id ASC").
		Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// Update 更新变量值
func (r *variableValueRepository) Update(ctx context.Context, value *model.VariableValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}

// Delete 删除变量值
func (r *variableValueRepository) Delete(ctx context.Context, workspace, valueID string) error {
	return r.db.WithContext(ctx).
		Where("workspace = ? AND value_id = ?", workspace, valueID).
		Delete(&model.VariableValue{}).Error
}

// DeleteByTag 删除标签的所有变量值
func (r *variableValueRepository) DeleteByTag(ctx context.Context, workspace, tagID string) error {
	return r.db.WithContext(ctx).
		Where("workspace = ? AND tag_id = ?", workspace, tagID).
		Delete(&model.VariableValue{}).Error
}

// DeleteByWorkspace 删除工作区的所有变量值
func (r *variableValueRepository) DeleteByWorkspace(ctx context.Context, workspace string) error {
	return r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Delete(&model.VariableValue{}).Error
}

// NextPosition 返回追加到末尾时使用的位置
func (r *variableValueRepository) NextPosition(ctx context.Context, workspace string) (int, error) {
	var pos int
	if err := r.db.WithContext(ctx).Model(&model.VariableValue{}).
		Where("workspace = ?", workspace).
		Select("COALESCE(MAX(position), -1)").
		Scan(&pos).Error; err != nil {
		return 0, err
	}
	return pos + 1, nil
}

// SetPositions 按 valueIDs 的顺序重写位置
func (r *variableValueRepository) SetPositions(ctx context.Context, workspace string, valueIDs []string) error {
	for i, id := range valueIDs {
		if err := r.db.WithContext(ctx).Model(&model.VariableValue{}).
			Where("workspace = ? AND value_id = ?", workspace, id).
			Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}
