package entity

// SubmissionStatus 提交状态
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusRunning   SubmissionStatus = "running"
	SubmissionStatusCompleted SubmissionStatus = "completed"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

// Finished 是否为终态
func (s SubmissionStatus) Finished() bool {
	return s == SubmissionStatusCompleted || s == SubmissionStatusFailed
}

// DefaultTaskName 未命名任务的名称
const DefaultTaskName = "无标题任务"

// Submission 提交记录
type Submission struct {
	ID              string           `json:"id"` // Submission ID: sub-{递增数字}
	Workspace       string           `json:"workspace"`
	Username        string           `json:"username"`
	TaskName        string           `json:"task_name"`
	Status          SubmissionStatus `json:"status"`
	TotalImages     int              `json:"total_images"`
	CompletedImages int              `json:"completed_images"`
	Progress        float64          `json:"progress"` // 0-100
	Error           string           `json:"error,omitempty"`
	Payload         *SubmitData      `json:"payload,omitempty"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// SubmitTag 提交数据中的标签，变量标签附带其所有值
type SubmitTag struct {
	Tag
	Values []string `json:"values,omitempty"`
}

// SubmitVariable 变量字典中的一项
type SubmitVariable struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// SubmitData 发送给生成后端的数据
type SubmitData struct {
	Username  string                      `json:"username"`
	TaskName  string                      `json:"task_name"`
	Tags      []SubmitTag                 `json:"tags"`
	Variables map[string][]SubmitVariable `json:"variables"`
	Settings  GlobalSettings              `json:"settings"`
	CreatedAt string                      `json:"createdAt"`
}

// ValidationError 提交前校验错误
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

// Combination 一组变量取值，变量名到值
type Combination map[string]string

// SubmitRequest 提交请求
type SubmitRequest struct {
	TaskName string `json:"task_name"`
	Confirm  bool   `json:"confirm"`
	Token    string `json:"-"` // 来自 Authorization 或 x-token 请求头
}

// PreviewRequest 预览请求
type PreviewRequest struct {
	TaskName string `json:"task_name"`
	Limit    int    `json:"limit"`
	Token    string `json:"-"`
}

// PreviewResponse 提交预览
type PreviewResponse struct {
	TotalImages          int              `json:"total_images"`
	RequiresConfirmation bool             `json:"requires_confirmation"`
	Validation           *ValidationError `json:"validation,omitempty"`
	Payload              *SubmitData      `json:"payload,omitempty"`
	Combinations         []Combination    `json:"combinations"`
}

// ProgressRequest 生成后端回报进度
type ProgressRequest struct {
	CompletedImages int              `json:"completed_images"`
	Status          SubmissionStatus `json:"status"`
	Error           string           `json:"error"`
}

// ListSubmissionsRequest 提交记录列表请求
type ListSubmissionsRequest struct {
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`
}
