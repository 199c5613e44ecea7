package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	Delete(ctx context.Context, id string) error
	// ListByConversation 按创建时间倒序分页
	ListByConversation(ctx context.Context, conversationID string, offset, limit int) ([]*model.Message, error)
	CountByConversation(ctx context.Context, conversationID string) (int64, error)
	// LastByConversations 批量取每个会话的最后一条消息
	LastByConversations(ctx context.Context, conversationIDs []string) (map[string]*model.Message, error)
}

type messageRepository struct{ db *gorm.DB }

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Message{}).Error
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID string, offset, limit int) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *messageRepository) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).Count(&cnt).Error
	return cnt, err
}

func (r *messageRepository) LastByConversations(ctx context.Context, conversationIDs []string) (map[string]*model.Message, error) {
	res := make(map[string]*model.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return res, nil
	}
	var rows []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIDs).
		Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	// 升序遍历，后写覆盖先写，留下的即为各会话最后一条
	for _, m := range rows {
		res[m.ConversationID] = m
	}
	return res, nil
}
