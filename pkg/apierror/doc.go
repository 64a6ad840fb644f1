// Package apierror 提供统一的 API 错误类型
//
// 错误响应格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "VariableNameExists",
//	            "message": "variable name \"风格\" already exists"
//	        }
//	    ],
//	    "requestID": "9a4f0c1e-2b7d-4d55-8f3e-6c1a2b3c4d5e"
//	}
//
// 使用示例：
//
//	// 直接返回预定义错误
//	return apierror.ErrTagNotFound
//
//	// 替换消息
//	return apierror.WithMessage(apierror.ErrVariableNameExists, "variable name %q already exists", name)
//
//	// 附带内部错误（仅记录日志，不返回给客户端）
//	return apierror.WrapError(apierror.ErrInternalError, "Failed to save tag", err)
package apierror
