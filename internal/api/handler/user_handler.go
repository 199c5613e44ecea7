package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/pkg/response"
)

// Users 用户目录（搜索/发现）
// @Summary 用户目录
// @Tags 用户
// @Security BearerAuth
// @Param search query string false "按用户名或昵称模糊匹配"
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Produce json
// @Success 200 {object} response.Page
// @Router /users [get]
func (h *Handler) Users(c *gin.Context) {
	limit, offset := pageParams(c, 20)
	response.OK(c, h.userService.List(c.Request.Context(), middleware.UserID(c), c.Query("search"), limit, offset))
}

// OnlineUsers 在线用户
// @Summary 在线用户
// @Tags 用户
// @Security BearerAuth
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Produce json
// @Success 200 {object} response.Page
// @Router /users/online [get]
func (h *Handler) OnlineUsers(c *gin.Context) {
	limit, offset := pageParams(c, 50)
	response.OK(c, h.userService.Online(c.Request.Context(), middleware.UserID(c), limit, offset))
}
