package model

import "time"

// Tag 标签表，同一工作区内按 position 排序
type Tag struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:id" copier:"-"`
	Workspace       string    `gorm:"type:text;not null;index:idx_tags_workspace;column:workspace"`
	TagID           string    `gorm:"type:text;not null;column:tag_id"`
	Position        int       `gorm:"not null;default:0;column:position"`
	Name            string    `gorm:"type:text;column:name"`
	Type            string    `gorm:"type:text;not null;column:type"`
	IsVariable      bool      `gorm:"not null;default:false;column:is_variable"`
	Color           string    `gorm:"type:text;column:color"`
	GradientToColor string    `gorm:"type:text;column:gradient_to_color"`
	UseGradient     bool      `gorm:"not null;default:false;column:use_gradient"`
	Value           string    `gorm:"type:text;column:value"`
	UUID            string    `gorm:"type:text;column:uuid"`
	Avatar          string    `gorm:"type:text;column:avatar"`
	HeatScore       *float64  `gorm:"column:heat_score"`
	Weight          *float64  `gorm:"column:weight"`
	CreatedAt       time.Time `gorm:"type:datetime;not null;column:created_at"`
	UpdatedAt       time.Time `gorm:"type:datetime;not null;column:updated_at"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
