// Package response gin JSON 输出辅助：错误体统一为 {"message": ...}，
// 列表统一为 {data, limit, offset, total, hasMore} 分页信封。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/jam/pkg/apperr"
	"github.com/d60-Lab/jam/pkg/logger"
)

// Page 列表分页信封
type Page struct {
	Data    any   `json:"data"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// NewPage 构造分页信封，hasMore = offset+limit < total
func NewPage(data any, limit, offset int, total int64) Page {
	return Page{
		Data:    data,
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: int64(offset+limit) < total,
	}
}

// EmptyPage 降级读场景返回的空页
func EmptyPage(limit, offset int) Page {
	return Page{Data: []any{}, Limit: limit, Offset: offset}
}

type errorBody struct {
	Message string `json:"message"`
}

func OK(c *gin.Context, obj any) { c.JSON(http.StatusOK, obj) }

func Created(c *gin.Context, obj any) { c.JSON(http.StatusCreated, obj) }

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorBody{Message: msg})
}

func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Message: "internal server error"})
}

// Error 按业务码输出错误响应
func Error(c *gin.Context, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodeBadRequest:
		BadRequest(c, apperr.MessageOf(err))
	case apperr.CodeUnauthorized:
		Unauthorized(c, apperr.MessageOf(err))
	case apperr.CodeForbidden:
		Forbidden(c, apperr.MessageOf(err))
	case apperr.CodeNotFound:
		NotFound(c, apperr.MessageOf(err))
	default:
		InternalError(c, err)
	}
}
