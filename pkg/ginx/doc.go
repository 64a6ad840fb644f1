// Package ginx 提供 gin 框架的 handler 适配器，支持自动参数绑定和统一的错误响应
//
// 参数绑定顺序：请求体（JSON，或 Content-Type 为表单时使用表单）> URI 参数 > Query 参数。
// 如果参数结构体实现了 IsValid() error，绑定后会调用它进行校验。
//
// 所有错误都以 apierror.ErrorResponse 的 JSON 格式返回，
// 并使用 RequestID 中间件分配的请求 ID。
//
// 支持的 handler 函数签名：
//
//	// 有参数，有返回值，有 error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// 有参数，只有 error（成功时返回 204）
//	func(c *gin.Context, args *Args) error
//
//	// 无参数，有返回值，有 error
//	func(c *gin.Context) (resp, error)
//
//	// 无参数，只有 error（成功时返回 204）
//	func(c *gin.Context) error
//
//	// 无参数，只有返回值
//	func(c *gin.Context) resp
//
// 使用示例：
//
//	router := gin.New()
//	router.Use(ginx.RequestID())
//
//	router.POST("/tags", ginx.Adapt5(func(c *gin.Context, args *AddTagArgs) (*Tag, error) {
//	    return &Tag{...}, nil
//	}))
//
//	router.DELETE("/tags/:tag_id", ginx.Adapt4(func(c *gin.Context, args *TagIDArgs) error {
//	    return nil
//	}))
package ginx
