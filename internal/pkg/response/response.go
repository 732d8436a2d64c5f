package response

import (
	"errors"
	log "log/slog"
	"net/http"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// Success 成功返回封装
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// Created 创建成功
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// Fail 失败返回封装，HTTP 状态码与错误类型一致
func Fail(c *gin.Context, status int, code, message string, validValues ...string) {
	c.JSON(status, dto.ErrorResponse{
		Status:      StatusError,
		Code:        code,
		Message:     message,
		ValidValues: validValues,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var invalid *service.InvalidParamError
	if errors.As(err, &invalid) {
		Fail(c, http.StatusBadRequest, CodeInvalidParameter, invalid.Error(), invalid.Valid...)
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, CodeInvalidParameter, "invalid request body")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	var syntaxError *json.SyntaxError
	if errors.As(err, &unmarshalTypeError) || errors.As(err, &syntaxError) {
		Fail(c, http.StatusBadRequest, CodeInvalidParameter, "malformed json")
		return
	}

	code, ok := service.LookupError(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "unhandled error", "err", err)
		Fail(c, http.StatusInternalServerError, CodeInternal, service.UnExpectedError.Error())
		return
	}
	Fail(c, code.Status, code.Code, err.Error())
}
