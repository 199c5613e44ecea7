package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/pkg/response"
)

// FollowUser 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Security BearerAuth
// @Param userId path string true "被关注用户ID"
// @Produce json
// @Success 200 {object} model.Follow
// @Failure 400 {object} map[string]string
// @Router /follows/{userId} [post]
func (h *Handler) FollowUser(c *gin.Context) {
	f, err := h.followService.Follow(c.Request.Context(), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, f)
}

// UnfollowUser 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Security BearerAuth
// @Param userId path string true "被取关用户ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /follows/{userId} [delete]
func (h *Handler) UnfollowUser(c *gin.Context) {
	if err := h.followService.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Successfully unfollowed user"})
}

// MyFollowing 我关注的人
// @Summary 我关注的人
// @Tags 关系链
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.FollowedUserDTO
// @Router /follows/following [get]
func (h *Handler) MyFollowing(c *gin.Context) {
	response.OK(c, h.followService.Following(c.Request.Context(), middleware.UserID(c)))
}

// MyFollowers 关注我的人
// @Summary 关注我的人
// @Tags 关系链
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.FollowedUserDTO
// @Router /follows/followers [get]
func (h *Handler) MyFollowers(c *gin.Context) {
	response.OK(c, h.followService.Followers(c.Request.Context(), middleware.UserID(c)))
}

// UserFollowing 某用户关注的人（公开）
// @Summary 某用户关注的人
// @Tags 关系链
// @Param userId path string true "用户ID"
// @Produce json
// @Success 200 {array} service.FollowedUserDTO
// @Router /follows/{userId}/following [get]
func (h *Handler) UserFollowing(c *gin.Context) {
	response.OK(c, h.followService.Following(c.Request.Context(), c.Param("userId")))
}

// UserFollowers 某用户的粉丝（公开）
// @Summary 某用户的粉丝
// @Tags 关系链
// @Param userId path string true "用户ID"
// @Produce json
// @Success 200 {array} service.FollowedUserDTO
// @Router /follows/{userId}/followers [get]
func (h *Handler) UserFollowers(c *gin.Context) {
	response.OK(c, h.followService.Followers(c.Request.Context(), c.Param("userId")))
}
