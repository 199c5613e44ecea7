package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/internal/service"
	"github.com/d60-Lab/jam/pkg/response"
)

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Text        string `json:"text" binding:"omitempty,max=2000"`
	AudioURL    string `json:"audio_url" binding:"omitempty,url"`
}

// SendMessage 发送私信
// @Summary 发送私信
// @Tags 私信
// @Security BearerAuth
// @Accept json
// @Param req body sendMessageRequest true "消息内容"
// @Produce json
// @Success 201 {object} service.MessageDTO
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /messages/send [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	msg, err := h.messageService.Send(c.Request.Context(), middleware.UserID(c), service.SendMessageInput{
		RecipientID: req.RecipientID,
		Text:        req.Text,
		AudioURL:    req.AudioURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Conversations 我的会话列表
// @Summary 我的会话列表
// @Tags 私信
// @Security BearerAuth
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Produce json
// @Success 200 {object} response.Page
// @Router /messages/conversations [get]
func (h *Handler) Conversations(c *gin.Context) {
	limit, offset := pageParams(c, 50)
	response.OK(c, h.messageService.Conversations(c.Request.Context(), middleware.UserID(c), limit, offset))
}

// MessagesWith 与某用户的消息记录
// @Summary 与某用户的消息记录
// @Tags 私信
// @Security BearerAuth
// @Param userId path string true "对方用户ID"
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Produce json
// @Success 200 {object} response.Page
// @Router /messages/conversation/{userId} [get]
func (h *Handler) MessagesWith(c *gin.Context) {
	limit, offset := pageParams(c, 50)
	response.OK(c, h.messageService.MessagesWith(c.Request.Context(), middleware.UserID(c), c.Param("userId"), limit, offset))
}

// DeleteMessage 删除自己发出的消息
// @Summary 删除消息
// @Tags 私信
// @Security BearerAuth
// @Param messageId path string true "消息ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /messages/{messageId} [delete]
func (h *Handler) DeleteMessage(c *gin.Context) {
	if err := h.messageService.Delete(c.Request.Context(), c.Param("messageId"), middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Message deleted successfully"})
}
