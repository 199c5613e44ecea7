package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/pkg/response"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=3,max=20,username"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 注册：先校验用户名，再建身份账号，最后落资料
// @Summary 注册新用户
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 200 {object} service.RegisterResult
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Login 登录，换取 access token
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录凭证"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Me 当前用户信息（资料缺失时降级返回基础信息）
// @Summary 当前用户
// @Tags 认证
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.MeDTO
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	ident := middleware.Identity(c)
	response.OK(c, h.authService.Me(c.Request.Context(), ident))
}
