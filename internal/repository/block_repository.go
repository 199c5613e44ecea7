package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
)

// BlockedProfile 拉黑列表条目
type BlockedProfile struct {
	Profile   *model.Profile
	BlockedAt time.Time
}

type BlockRepository interface {
	Create(ctx context.Context, blockerID, blockedID string) (*model.Block, error)
	// Delete 返回是否删到记录
	Delete(ctx context.Context, blockerID, blockedID string) (bool, error)
	// Exists 单向：blocker 是否拉黑了 blocked
	Exists(ctx context.Context, blockerID, blockedID string) (bool, error)
	// ExistsBetween 双向：两人之间任一方向存在拉黑即为 true
	ExistsBetween(ctx context.Context, userA, userB string) (bool, error)
	List(ctx context.Context, blockerID string, offset, limit int) ([]*BlockedProfile, error)
	Count(ctx context.Context, blockerID string) (int64, error)
}

type blockRepository struct{ db *gorm.DB }

func NewBlockRepository(db *gorm.DB) BlockRepository { return &blockRepository{db: db} }

func (r *blockRepository) Create(ctx context.Context, blockerID, blockedID string) (*model.Block, error) {
	b := &model.Block{ID: uuid.New().String(), BlockerID: blockerID, BlockedID: blockedID}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{})
	return res.RowsAffected > 0, res.Error
}

func (r *blockRepository) Exists(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *blockRepository) ExistsBetween(ctx context.Context, userA, userB string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", userA, userB, userB, userA).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *blockRepository) List(ctx context.Context, blockerID string, offset, limit int) ([]*BlockedProfile, error) {
	var blocks []*model.Block
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&blocks).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.BlockedID
	}
	var profiles []*model.Profile
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[string]*model.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	res := make([]*BlockedProfile, 0, len(blocks))
	for _, b := range blocks {
		if p, ok := byID[b.BlockedID]; ok {
			res = append(res, &BlockedProfile{Profile: p, BlockedAt: b.CreatedAt})
		}
	}
	return res, nil
}

func (r *blockRepository) Count(ctx context.Context, blockerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocker_id = ?", blockerID).Count(&cnt).Error
	return cnt, err
}
