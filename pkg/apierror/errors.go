package apierror

import "net/http"

// 通用错误
var (
	// ErrInternalError 发生了内部错误
	ErrInternalError = &Error{
		Code:       "InternalError",
		Message:    "An internal error has occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrInvalidParameter 请求参数不合法
	ErrInvalidParameter = &Error{
		Code:       "InvalidParameter",
		Message:    "The request contains an invalid parameter.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrUnauthorized 缺少或无效的认证令牌
	ErrUnauthorized = &Error{
		Code:       "Unauthorized",
		Message:    "An authorization token is required.",
		HTTPStatus: http.StatusUnauthorized,
	}

	// ErrUpstreamUnavailable 无法连接上游服务
	ErrUpstreamUnavailable = &Error{
		Code:       "UpstreamUnavailable",
		Message:    "Unable to reach the upstream service.",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	// ErrUpstreamBadResponse 上游服务返回了无法解析的响应
	ErrUpstreamBadResponse = &Error{
		Code:       "UpstreamBadResponse",
		Message:    "The upstream service returned an unreadable response.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrUpstreamRejected 上游服务拒绝了请求，HTTP 状态码与上游一致
	ErrUpstreamRejected = &Error{
		Code:       "UpstreamRejected",
		Message:    "The upstream service rejected the request.",
		HTTPStatus: http.StatusBadGateway,
	}
)

// 标签编辑相关错误
var (
	ErrTagNotFound = &Error{
		Code:       "TagNotFound",
		Message:    "The tag does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrValueNotFound = &Error{
		Code:       "ValueNotFound",
		Message:    "The variable value does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrInvalidVariableName = &Error{
		Code:       "InvalidVariableName",
		Message:    "A variable tag must have a name.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrVariableNameTooLong = &Error{
		Code:       "VariableNameTooLong",
		Message:    "The variable name must not exceed 12 characters.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrVariableNameExists = &Error{
		Code:       "VariableNameExists",
		Message:    "The variable name is already used.",
		HTTPStatus: http.StatusConflict,
	}

	ErrReservedVariableName = &Error{
		Code:       "ReservedVariableName",
		Message:    "The variable name is reserved.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrDuplicateTagType = &Error{
		Code:       "DuplicateTagType",
		Message:    "Only one tag of this type is allowed.",
		HTTPStatus: http.StatusConflict,
	}

	ErrDuplicateVariableType = &Error{
		Code:       "DuplicateVariableType",
		Message:    "A variable tag of this type already exists.",
		HTTPStatus: http.StatusConflict,
	}

	ErrVariableNotAllowed = &Error{
		Code:       "VariableNotAllowed",
		Message:    "This tag type cannot be a variable.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNotVariable = &Error{
		Code:       "NotVariable",
		Message:    "The tag is not a variable tag.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrPolishValueRestricted = &Error{
		Code:       "PolishValueRestricted",
		Message:    "Polish variables only accept the values true and false.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCharacterRequired = &Error{
		Code:       "CharacterRequired",
		Message:    "A character tag must reference a character uuid.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidConfig = &Error{
		Code:       "InvalidConfig",
		Message:    "The configuration file is invalid or corrupted.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// 提交相关错误
var (
	ErrSubmissionNotFound = &Error{
		Code:       "SubmissionNotFound",
		Message:    "The submission does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrConfirmationRequired = &Error{
		Code:       "ConfirmationRequired",
		Message:    "The submission generates a large number of images and must be confirmed.",
		HTTPStatus: http.StatusConflict,
	}

	ErrSubmissionFinished = &Error{
		Code:       "SubmissionFinished",
		Message:    "The submission has already completed or failed.",
		HTTPStatus: http.StatusConflict,
	}

	ErrDispatchFailed = &Error{
		Code:       "DispatchFailed",
		Message:    "The generation job could not be submitted.",
		HTTPStatus: http.StatusBadGateway,
	}
)
