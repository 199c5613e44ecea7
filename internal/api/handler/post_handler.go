package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/internal/service"
	"github.com/d60-Lab/jam/pkg/response"
)

type createPostRequest struct {
	Text       string `json:"text"`
	AudioURL   string `json:"audio_url"`
	Visibility string `json:"visibility" binding:"omitempty,oneof=public followers"`
}

type createCommentRequest struct {
	Content  string `json:"content"`
	AudioURL string `json:"audio_url"`
}

// CreatePost 发帖（文字/语音至少一项）
// @Summary 发帖
// @Tags 帖子
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 200 {object} service.PostDTO
// @Failure 400 {object} map[string]string
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), service.CreatePostInput{
		Text:       req.Text,
		AudioURL:   req.AudioURL,
		Visibility: req.Visibility,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto)
}

// Feed 全局信息流（匿名可看 public）
// @Summary 信息流
// @Tags 帖子
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Produce json
// @Success 200 {object} response.Page
// @Router /posts/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	limit, offset := pageParams(c, 20)
	response.OK(c, h.postService.Feed(c.Request.Context(), middleware.UserID(c), limit, offset))
}

// GetPost 单帖详情
// @Summary 单帖详情
// @Tags 帖子
// @Param postId path string true "帖子ID"
// @Produce json
// @Success 200 {object} service.PostDTO
// @Failure 404 {object} map[string]string
// @Router /posts/{postId} [get]
func (h *Handler) GetPost(c *gin.Context) {
	dto, err := h.postService.GetByID(c.Request.Context(), c.Param("postId"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto)
}

// DeletePost 删除自己的帖子
// @Summary 删帖
// @Tags 帖子
// @Security BearerAuth
// @Param postId path string true "帖子ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /posts/{postId} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), c.Param("postId"), middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Post deleted successfully"})
}

// ToggleLike 点赞/取消点赞
// @Summary 点赞开关
// @Tags 帖子
// @Security BearerAuth
// @Param postId path string true "帖子ID"
// @Produce json
// @Success 200 {object} service.PostDTO
// @Failure 404 {object} map[string]string
// @Router /posts/{postId}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	dto, err := h.postService.ToggleLike(c.Request.Context(), c.Param("postId"), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto)
}

// PostLikes 点赞人列表（公开）
// @Summary 点赞人列表
// @Tags 帖子
// @Param postId path string true "帖子ID"
// @Produce json
// @Success 200 {array} service.LikedUserDTO
// @Failure 404 {object} map[string]string
// @Router /posts/{postId}/likes [get]
func (h *Handler) PostLikes(c *gin.Context) {
	likes, err := h.postService.Likes(c.Request.Context(), c.Param("postId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, likes)
}

// Comments 帖子的评论列表
// @Summary 评论列表
// @Tags 帖子
// @Param postId path string true "帖子ID"
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Param order query string false "时间排序 asc/desc" default(asc)
// @Produce json
// @Success 200 {object} response.Page
// @Failure 404 {object} map[string]string
// @Router /posts/{postId}/comments [get]
func (h *Handler) Comments(c *gin.Context) {
	limit, offset := pageParams(c, 20)
	asc := c.DefaultQuery("order", "asc") != "desc"
	page, err := h.postService.Comments(c.Request.Context(), c.Param("postId"), middleware.UserID(c), limit, offset, asc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// CreateComment 发表评论
// @Summary 发评论
// @Tags 帖子
// @Security BearerAuth
// @Param postId path string true "帖子ID"
// @Param request body createCommentRequest true "评论内容"
// @Accept json
// @Produce json
// @Success 200 {object} service.CommentDTO
// @Failure 400 {object} map[string]string
// @Router /posts/{postId}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto, err := h.postService.CreateComment(c.Request.Context(), c.Param("postId"), middleware.UserID(c), service.CreateCommentInput{
		Content:  req.Content,
		AudioURL: req.AudioURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto)
}
