package service

import (
	"time"

	"github.com/d60-Lab/jam/internal/model"
)

// AuthorDTO 嵌在帖子/列表里的作者摘要
type AuthorDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func authorDTO(p *model.Profile) AuthorDTO {
	if p == nil {
		return AuthorDTO{}
	}
	return AuthorDTO{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}

// ProfileDTO 完整资料
type ProfileDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	DMPrivacy   string `json:"dm_privacy"`
	CreatedAt   string `json:"created_at"`
}

func profileDTO(p *model.Profile) *ProfileDTO {
	return &ProfileDTO{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		DMPrivacy:   p.DMPrivacy,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// PostDTO 富化后的帖子（含衍生计数与当前用户点赞状态）
type PostDTO struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Text          string    `json:"text"`
	AudioURL      string    `json:"audio_url"`
	Visibility    string    `json:"visibility"`
	CreatedAt     string    `json:"created_at"`
	Author        AuthorDTO `json:"author"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
}

// CommentDTO 评论（无二级评论计数）
type CommentDTO struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Author     AuthorDTO `json:"author"`
	Text       string    `json:"text"`
	AudioURL   string    `json:"audio_url"`
	CreatedAt  string    `json:"created_at"`
	LikesCount int64     `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
}

// UserDTO 用户目录条目
type UserDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Status    string `json:"status"`
}

// MessageDTO 私信
type MessageDTO struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
	AudioURL       string `json:"audio_url"`
	CreatedAt      string `json:"created_at"`
}

func messageDTO(m *model.Message) *MessageDTO {
	return &MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		AudioURL:       m.AudioURL,
		CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ConversationDTO 会话列表条目（对方资料 + 最后一条消息）
type ConversationDTO struct {
	ID        string      `json:"id"`
	OtherUser *AuthorDTO  `json:"other_user"`
	LastMsg   *MessageDTO `json:"last_message"`
	UpdatedAt string      `json:"updated_at"`
}
