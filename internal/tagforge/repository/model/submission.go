package model

import (
	"time"

	"gorm.io/datatypes"
)

// Submission 提交记录表
type Submission struct {
	ID              uint           `gorm:"primaryKey;autoIncrement;column:id" copier:"-"`
	SubmissionID    string         `gorm:"type:text;not null;uniqueIndex:idx_submissions_submission_id;column:submission_id"`
	Workspace       string         `gorm:"type:text;not null;index:idx_submissions_workspace;column:workspace"`
	Username        string         `gorm:"type:text;column:username"`
	TaskName        string         `gorm:"type:text;column:task_name"`
	Status          string         `gorm:"type:text;not null;index:idx_submissions_status;column:status"` // pending, running, completed, failed
	TotalImages     int            `gorm:"not null;default:0;column:total_images"`
	CompletedImages int            `gorm:"not null;default:0;column:completed_images"`
	Progress        float64        `gorm:"not null;default:0;column:progress"`
	Error           string         `gorm:"type:text;column:error"`
	Payload         datatypes.JSON `gorm:"column:payload" copier:"-"`
	CreatedAt       time.Time      `gorm:"type:datetime;not null;column:created_at"`
	UpdatedAt       time.Time      `gorm:"type:datetime;not null;column:updated_at"`
}

// TableName 指定表名
func (Submission) TableName() string {
	return "submissions"
}
