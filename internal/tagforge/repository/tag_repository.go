package repository

import (
	"context"

	"github.com/jimyag/tagforge/internal/tagforge/repository/model"
	"gorm.io/gorm"
)

// TagRepository 标签仓库接口
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	CreateBatch(ctx context.Context, tags []*model.Tag) error
	Get(ctx context.Context, workspace, tagID string) (*model.Tag, error)
	List(ctx context.Context, workspace string) ([]*model.Tag, error)
	Update(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, workspace, tagID string) error
	DeleteByWorkspace(ctx context.Context, workspace string) error
	NextPosition(ctx context.Context, workspace string) (int, error)
	SetPositions(ctx context.Context, workspace string, tagIDs []string) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签仓库
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create 创建标签
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// CreateBatch 批量创建标签
func (r *tagRepository) CreateBatch(ctx context.Context, tags []*model.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(tags).Error
}

// Get 获取标签，不存在时返回 gorm.ErrRecordNotFound
func (r *tagRepository) Get(ctx context.Context, workspace, tagID string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).
		Where("workspace = ? AND tag_id = ?", workspace, tagID).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// List 按位置顺序列出工作区的所有标签
func (r *tagRepository) List(ctx context.Context, workspace string) ([]*model.Tag, error) {
	var tags []*model.Tag
	if err := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("position ASC, id ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Update 更新标签
func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

// Delete 删除标签
func (r *tagRepository) Delete(ctx context.Context, workspace, tagID string) error {
	return r.db.WithContext(ctx).
		Where("workspace = ? AND tag_id = ?", workspace, tagID).
		Delete(&model.Tag{}).Error
}

// DeleteByWorkspace 删除工作区的所有标签
func (r *tagRepository) DeleteByWorkspace(ctx context.Context, workspace string) error {
	return r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Delete(&model.Tag{}).Error
}

// NextPosition 返回追加到末尾时使用的位置
func (r *tagRepository) NextPosition(ctx context.Context, workspace string) (int, error) {
	var pos int
	if err := r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("workspace = ?", workspace).
		Select("COALESCE(MAX(position), -1)").
		Scan(&pos).Error; err != nil {
		return 0, err
	}
	return pos + 1, nil
}

// SetPositions 按 tagIDs 的顺序重写位置
func (r *tagRepository) SetPositions(ctx context.Context, workspace string, tagIDs []string) error {
	for i, id := range tagIDs {
		if err := r.db.WithContext(ctx).Model(&model.Tag{}).
			Where("workspace = ? AND tag_id = ?", workspace, id).
			Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}
