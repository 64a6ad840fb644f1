package repository

import (
	"context"

	"github.com/jimyag/tagforge/internal/tagforge/repository/model"
	"gorm.io/gorm"
)

// SubmissionRepository 提交记录仓库接口
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	Get(ctx context.Context, workspace, submissionID string) (*model.Submission, error)
	List(ctx context.Context, workspace string, limit, offset int) ([]*model.Submission, error)
	Update(ctx context.Context, submission *model.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository 创建提交记录仓库
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create 创建提交记录
func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// Get 获取提交记录，不存在时返回 gorm.ErrRecordNotFound
func (r *submissionRepository) Get(ctx context.Context, workspace, submissionID string) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).
		Where("workspace = ? AND submission_id = ?", workspace, submissionID).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// List 按创建时间倒序列出提交记录，limit 小于等于 0 时不限制
func (r *submissionRepository) List(ctx context.Context, workspace string, limit, offset int) ([]*model.Submission, error) {
	var submissions []*model.Submission
	query := r.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// Update 更新提交记录
func (r *submissionRepository) Update(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
