package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/service"
)

// writeError translates a domain error into the error response
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, service.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "Internal server error"
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeBindError reports a request that failed decoding or field validation
func writeBindError(c *gin.Context, err error) {
	resp := models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_ARGUMENT",
		Message: "Invalid request",
	}

	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &validationErrs):
		resp.Message = "Validation failed"
		resp.Details = make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			resp.Details[fe.Field()] = fmt.Sprintf("failed on the '%s' tag", fe.Tag())
		}
	case errors.As(err, &syntaxErr):
		resp.Message = "Malformed JSON body"
	case errors.As(err, &typeErr):
		resp.Message = fmt.Sprintf("Invalid value for field '%s'", typeErr.Field)
	default:
		resp.Message = err.Error()
	}

	c.JSON(http.StatusBadRequest, resp)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_ARGUMENT",
		Message: message,
	})
}
