package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/internal/service"
	"github.com/d60-Lab/jam/pkg/response"
)

type updateProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=3,max=20,username"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=50"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	DMPrivacy   *string `json:"dm_privacy" binding:"omitempty,oneof=friends everyone"`
}

// MyProfile 我的资料
// @Summary 我的资料
// @Tags 资料
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.ProfileDTO
// @Router /profiles/me [get]
func (h *Handler) MyProfile(c *gin.Context) {
	dto, err := h.profileService.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto)
}

// UpdateMyProfile 更新我的资料（部分更新）
// @Summary 更新我的资料
// @Tags 资料
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "要修改的字段"
// @Success 200 {object} service.ProfileDTO
// @Failure 400 {object} map[string]string
// @Router /profiles/me [patch]
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto, err := h.profileService.Update(c.Request.Context(), middleware.UserID(c), service.UpdateProfileInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		DMPrivacy:   req.DMPrivacy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto)
}

// ProfileByUsername 按用户名查资料（公开）
// @Summary 按用户名查资料
// @Tags 资料
// @Param username path string true "用户名"
// @Produce json
// @Success 200 {object} service.ProfileDTO
// @Failure 404 {object} map[string]string
// @Router /profiles/{username} [get]
func (h *Handler) ProfileByUsername(c *gin.Context) {
	dto, err := h.profileService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto)
}

// PostsByUsername 某用户的帖子列表
// @Summary 某用户的帖子
// @Tags 资料
// @Param username path string true "用户名"
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Produce json
// @Success 200 {object} response.Page
// @Failure 404 {object} map[string]string
// @Router /profiles/{username}/posts [get]
func (h *Handler) PostsByUsername(c *gin.Context) {
	limit, offset := pageParams(c, 20)
	page, err := h.postService.PostsByUsername(c.Request.Context(), c.Param("username"), middleware.UserID(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}
