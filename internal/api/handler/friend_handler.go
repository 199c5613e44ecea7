package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/pkg/response"
)

// SendFriendRequest 发送好友请求
// @Summary 发送好友请求
// @Tags 好友
// @Security BearerAuth
// @Param userId path string true "目标用户ID"
// @Produce json
// @Success 200 {object} model.Friend
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /friends/{userId}/request [post]
func (h *Handler) SendFriendRequest(c *gin.Context) {
	f, err := h.friendService.Request(c.Request.Context(), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, f)
}

// AcceptFriendRequest 接受好友请求
// @Summary 接受好友请求
// @Tags 好友
// @Security BearerAuth
// @Param userId path string true "发起请求的用户ID"
// @Produce json
// @Success 200 {object} model.Friend
// @Failure 404 {object} map[string]string
// @Router /friends/{userId}/accept [post]
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	f, err := h.friendService.Accept(c.Request.Context(), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, f)
}

// RemoveFriend 删除好友或撤回请求
// @Summary 删除好友
// @Tags 好友
// @Security BearerAuth
// @Param userId path string true "对方用户ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /friends/{userId} [delete]
func (h *Handler) RemoveFriend(c *gin.Context) {
	if err := h.friendService.Remove(c.Request.Context(), middleware.UserID(c), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Friend removed successfully"})
}

// MyFriends 我的好友列表
// @Summary 我的好友列表
// @Tags 好友
// @Security BearerAuth
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Produce json
// @Success 200 {object} response.Page
// @Router /friends [get]
func (h *Handler) MyFriends(c *gin.Context) {
	limit, offset := pageParams(c, 50)
	response.OK(c, h.friendService.Friends(c.Request.Context(), middleware.UserID(c), limit, offset))
}

// FriendRequests 收到的好友请求
// @Summary 收到的好友请求
// @Tags 好友
// @Security BearerAuth
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Produce json
// @Success 200 {object} response.Page
// @Router /friends/requests [get]
func (h *Handler) FriendRequests(c *gin.Context) {
	limit, offset := pageParams(c, 20)
	response.OK(c, h.friendService.Requests(c.Request.Context(), middleware.UserID(c), limit, offset))
}
