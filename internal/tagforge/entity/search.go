package entity

// SearchType 搜索类型
type SearchType string

const (
	SearchTypeCharacter SearchType = "character"
	SearchTypeElement   SearchType = "element"
)

// DefaultSearchPageSize 默认分页大小
const DefaultSearchPageSize = 20

// ParentType 上游 parent-search 使用的类型
func (t SearchType) ParentType() string {
	switch t {
	case SearchTypeCharacter:
		return "oc"
	case SearchTypeElement:
		return "elementum"
	default:
		return ""
	}
}

// SearchRequest 搜索请求
type SearchRequest struct {
	Type      SearchType `json:"-"`
	Keywords  string     `json:"keywords"`
	PageIndex int        `json:"page_index"`
	PageSize  int        `json:"page_size"`
	Token     string     `json:"-"`
}

// SearchItem 搜索结果中的一项角色或元素
type SearchItem struct {
	UUID      string  `json:"uuid"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	AvatarImg string  `json:"avatar_img"`
	HeaderImg string  `json:"header_img"`
	HeatScore float64 `json:"heat_score"`
	TotalSize int     `json:"total_size"`
}

// SearchResponse 搜索结果
type SearchResponse struct {
	Items         []SearchItem `json:"items"`
	TotalSize     int          `json:"total_size"`
	TotalPageSize int          `json:"total_page_size"`
}
