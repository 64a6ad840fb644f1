package model

import "time"

// GlobalSettings 全局设置表，每个工作区一行
type GlobalSettings struct {
	Workspace  string    `gorm:"primaryKey;type:text;column:workspace"`
	MaxThreads int       `gorm:"not null;default:4;column:max_threads"`
	XToken     string    `gorm:"type:text;column:x_token"`
	UpdatedAt  time.Time `gorm:"type:datetime;not null;column:updated_at"`
}

// TableName 指定表名
func (GlobalSettings) TableName() string {
	return "global_settings"
}
