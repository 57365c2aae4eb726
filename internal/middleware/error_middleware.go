package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/freshman/internal/app/models/dto"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/logger"
)

const (
	msgInvalidParameter = "参数错误"
	msgPermissionDenied = "权限不足"
	msgNotFound         = "资源不存在"
	msgInternal         = "服务器内部错误"
	msgUnavailable      = "服务暂不可用"
)

// HandleAPIError maps err onto the error envelope and writes it
func HandleAPIError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.FullPath()).
			Str("requestID", c.GetString(ContextRequestID)).
			Msg("Request failed")
	}
	c.JSON(status, body)
}

func errorResponse(err error) (int, *dto.ErrorResponse) {
	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)

	if coded, ok := apperrors.AsCoded(err); ok {
		resp := dto.NewErrorResponse(coded.Code, coded.Message)
		// Details never echo a secret mismatch back to the caller.
		if hasCustom && custom.Details != nil {
			resp.WithDetails(custom.Details)
		} else if hasCustom && coded.Code == apperrors.ErrUnauthenticated.Code {
			resp.WithDetails(custom.Message)
		}
		return coded.Status, resp
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, dto.NewErrorResponse(apperrors.CodeInvalidParameter, msgInvalidParameter).
			WithDetails(fieldErrors(validationErrs))
	case apperrors.Is(err, apperrors.ErrBadRequest, apperrors.ErrValidationFailed, apperrors.ErrInvalidFormat):
		resp := dto.NewErrorResponse(apperrors.CodeInvalidParameter, msgInvalidParameter)
		if hasCustom && custom.Message != "" {
			resp.WithDetails(custom.Message)
		}
		return http.StatusBadRequest, resp
	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid):
		e := apperrors.ErrUnauthenticated
		return e.Status, dto.NewErrorResponse(e.Code, e.Message)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorResponse(apperrors.CodePermissionDenied, msgPermissionDenied)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(apperrors.CodeInvalidParameter, msgNotFound)
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, dto.NewErrorResponse(apperrors.CodeInternal, msgUnavailable)
	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(apperrors.CodeInternal, msgInternal)
	}
}

// Recovery turns panics into the internal error envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(ContextRequestID)).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(apperrors.CodeInternal, msgInternal))
	})
}
