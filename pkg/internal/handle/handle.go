// Package handle 提供 HTTP 请求处理器，负责参数解析与错误到状态码的映射，业务逻辑在 service 中.
package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/shipdocs/pkg/internal/service"
	"github.com/yeisme/shipdocs/pkg/log"
)

// errorBody 统一错误响应.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeError 把 service 的错误类型映射为状态码，存储错误只返回通用提示.
func writeError(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		nerr *service.NotFoundError
		serr *service.StorageError
	)

	switch {
	case isBodyTooLarge(err):
		c.JSON(http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorBody{Error: verr.Message, Field: verr.Field})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, errorBody{Error: nerr.Error()})
	case errors.As(err, &serr):
		if serr.Retryable {
			c.Header("Retry-After", "1")
		}

		c.JSON(http.StatusInternalServerError, errorBody{Error: service.MsgStorageFailure})
	default:
		l := log.Logger()
		l.Error().Err(err).Str("path", c.FullPath()).Msg("unclassified handler error")
		c.JSON(http.StatusInternalServerError, errorBody{Error: service.MsgStorageFailure})
	}
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError

	return errors.As(err, &mbe)
}

// parseID 解析路径中的正整数 ID.
func parseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Field: param, Message: param + " must be a positive integer"}
	}

	return uint(id), nil
}
