package service

import (
	"errors"

	"github.com/jimyag/tagforge/pkg/apierror"
)

// asAPIError 业务错误原样返回，其余错误包装为内部错误
func asAPIError(err error, message string) error {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierror.WrapError(apierror.ErrInternalError, message, err)
}
