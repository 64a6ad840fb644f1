package model

import "time"

// VariableValue 变量值表，tag_id 引用 tags.tag_id
type VariableValue struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" copier:"-"`
	Workspace string    `gorm:"type:text;not null;index:idx_variable_values_workspace;column:workspace"`
	ValueID   string    `gorm:"type:text;not null;column:value_id"`
	TagID     string    `gorm:"type:text;not null;index:idx_variable_values_tag_id;column:tag_id"`
	Position  int       `gorm:"not null;default:0;column:position"`
	Value     string    `gorm:"type:text;column:value"`
	UUID      string    `gorm:"type:text;column:uuid"`
	Avatar    string    `gorm:"type:text;column:avatar"`
	Weight    *float64  `gorm:"column:weight"`
	CreatedAt time.Time `gorm:"type:datetime;not null;column:created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;column:updated_at"`
}

// TableName 指定表名
func (VariableValue) TableName() string {
	return "variable_values"
}
