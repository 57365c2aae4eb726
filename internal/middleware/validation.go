package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/freshman/internal/app/models/dto"
	"github.com/yigit/freshman/internal/pkg/apperrors"
)

// HandleBindError reports a failed ShouldBind* call. Validation failures
// carry one entry per field; anything else (malformed JSON, a non-boolean
// form value) is a plain invalid-parameter error.
func HandleBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		HandleAPIError(c, validationErrs)
		return
	}
	HandleAPIError(c, apperrors.NewBadRequestError(err.Error()))
}

func fieldErrors(errs validator.ValidationErrors) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, dto.FieldError{
			Field:   e.Field(),
			Message: formatValidationError(e),
		})
	}
	return out
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "json":
		return e.Field() + " must be a JSON document"
	case "idnumber":
		return e.Field() + " must be a resident identity number"
	case "studentid":
		return e.Field() + " must be a student id or admission ticket"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
