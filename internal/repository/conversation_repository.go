package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/jam/internal/model"
)

// ConversationRepository 私信会话仓储接口。
// 调用方传入的 user1/user2 必须已按字典序排好。
type ConversationRepository interface {
	GetByPair(ctx context.Context, user1, user2 string) (*model.Conversation, error)
	// FindOrCreate 按有序对查或建会话。并发重复插入交给唯一键兜底，
	// 冲突一方静默重查，保证幂等。
	FindOrCreate(ctx context.Context, user1, user2 string) (*model.Conversation, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Conversation, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type conversationRepository struct{ db *gorm.DB }

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetByPair(ctx context.Context, user1, user2 string) (*model.Conversation, error) {
	var c model.Conversation
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", user1, user2).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, user1, user2 string) (*model.Conversation, error) {
	existing, err := r.GetByPair(ctx, user1, user2)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	c := &model.Conversation{ID: uuid.New().String(), User1ID: user1, User2ID: user2}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c).Error; err != nil {
		return nil, err
	}
	// 被并发插入抢先时 DoNothing 不落行，重查拿已有会话
	return r.GetByPair(ctx, user1, user2)
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Conversation, error) {
	var res []*model.Conversation
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *conversationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Count(&cnt).Error
	return cnt, err
}
