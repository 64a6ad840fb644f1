package entity

import "encoding/json"

// LoginRequest 登录请求，兼容 JSON 的 email 和表单的 username
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Account 返回登录使用的账号
func (r *LoginRequest) Account() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// TokenData 登录令牌
type TokenData struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    TokenData `json:"data"`
}

// LogoutResponse 登出响应
type LogoutResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// User 当前用户信息，只声明用到的字段，其余原样透传
type User struct {
	ID       string         `json:"_id,omitempty"`
	Fullname string         `json:"fullname,omitempty"`
	Email    string         `json:"email,omitempty"`
	Raw      map[string]any `json:"-"`
}

// MarshalJSON 有原始数据时原样输出
func (u User) MarshalJSON() ([]byte, error) {
	if u.Raw != nil {
		return json.Marshal(u.Raw)
	}
	type plain User
	return json.Marshal(plain(u))
}
