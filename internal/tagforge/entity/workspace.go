package entity

// 工作区默认值
const (
	DefaultWorkspace  = "default"
	DefaultMaxThreads = 4
	MinMaxThreads     = 1
	MaxMaxThreads     = 32

	ConfigVersion = "1.0"
)

// 本地存储键，导出的状态与之对应
const (
	StorageKeyTags           = "droppable-tags-v2-tags"
	StorageKeyVariableValues = "droppable-tags-v2-variable-values"
	StorageKeyGlobalSettings = "droppable-tags-v2-global-settings"
)

// GlobalSettings 全局生成设置
type GlobalSettings struct {
	MaxThreads int    `json:"maxThreads"` // 最大线程数 1-32
	XToken     string `json:"xToken"`     // x-token
}

// DefaultGlobalSettings 返回默认设置
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{MaxThreads: DefaultMaxThreads}
}

// WorkspaceState 工作区完整状态
type WorkspaceState struct {
	Tags           []Tag           `json:"tags"`
	VariableValues []VariableValue `json:"variableValues"`
	GlobalSettings GlobalSettings  `json:"globalSettings"`
}

// ConfigSnapshot 导出的配置文件
type ConfigSnapshot struct {
	Tags           []Tag           `json:"tags"`
	VariableValues []VariableValue `json:"variableValues"`
	GlobalSettings GlobalSettings  `json:"globalSettings"`
	ExportDate     string          `json:"exportDate"`
	Version        string          `json:"version"`
}

// UpdateSettingsRequest 更新设置请求，未提供的字段保持不变
type UpdateSettingsRequest struct {
	MaxThreads *int    `json:"maxThreads"`
	XToken     *string `json:"xToken"`
}

// ImportResult 导入结果
type ImportResult struct {
	State         *WorkspaceState `json:"state"`
	DroppedTags   int             `json:"droppedTags"`   // 丢弃的无效标签数
	DroppedValues int             `json:"droppedValues"` // 丢弃的无效变量值数
}
