package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/pkg/response"
)

// BlockUser 拉黑用户
// @Summary 拉黑用户
// @Tags 黑名单
// @Security BearerAuth
// @Param userId path string true "被拉黑用户ID"
// @Produce json
// @Success 200 {object} model.Block
// @Failure 400 {object} map[string]string
// @Router /blocks/{userId} [post]
func (h *Handler) BlockUser(c *gin.Context) {
	b, err := h.blockService.Block(c.Request.Context(), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, b)
}

// UnblockUser 取消拉黑
// @Summary 取消拉黑
// @Tags 黑名单
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /blocks/{userId} [delete]
func (h *Handler) UnblockUser(c *gin.Context) {
	if err := h.blockService.Unblock(c.Request.Context(), middleware.UserID(c), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "User unblocked successfully"})
}

// BlockedUsers 我的黑名单
// @Summary 我的黑名单
// @Tags 黑名单
// @Security BearerAuth
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Produce json
// @Success 200 {object} response.Page
// @Router /blocks [get]
func (h *Handler) BlockedUsers(c *gin.Context) {
	limit, offset := pageParams(c, 50)
	response.OK(c, h.blockService.Blocked(c.Request.Context(), middleware.UserID(c), limit, offset))
}
