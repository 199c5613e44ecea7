package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
)

// FriendProfile 好友 / 好友申请列表条目
type FriendProfile struct {
	Profile *model.Profile
	Since   time.Time
}

// FriendRepository 好友关系仓储接口。一对用户最多一条记录，
// 方向不定，查询时两个方向都要覆盖。
type FriendRepository interface {
	Create(ctx context.Context, f *model.Friend) error
	// GetBetween 取两人之间的关系记录（任一方向），不存在返回 nil
	GetBetween(ctx context.Context, userA, userB string) (*model.Friend, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// DeleteBetween 删除两人之间的关系（任一方向），返回是否删到
	DeleteBetween(ctx context.Context, userA, userB string) (bool, error)
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
	// ListFriends 已接受的好友（双向），附带资料与成为好友时间
	ListFriends(ctx context.Context, userID string, offset, limit int) ([]*FriendProfile, error)
	CountFriends(ctx context.Context, userID string) (int64, error)
	// ListIncoming 发给我的待处理申请
	ListIncoming(ctx context.Context, userID string, offset, limit int) ([]*FriendProfile, error)
	CountIncoming(ctx context.Context, userID string) (int64, error)
}

type friendRepository struct{ db *gorm.DB }

func NewFriendRepository(db *gorm.DB) FriendRepository { return &friendRepository{db: db} }

func (r *friendRepository) Create(ctx context.Context, f *model.Friend) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Status == "" {
		f.Status = model.FriendStatusPending
	}
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *friendRepository) GetBetween(ctx context.Context, userA, userB string) (*model.Friend, error) {
	var f model.Friend
	err := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userA, userB, userB, userA).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&model.Friend{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *friendRepository) DeleteBetween(ctx context.Context, userA, userB string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userA, userB, userB, userA).
		Delete(&model.Friend{})
	return res.RowsAffected > 0, res.Error
}

func (r *friendRepository) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Friend{}).
		Where("status = ?", model.FriendStatusAccepted).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userA, userB, userB, userA).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *friendRepository) friendsQuery(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Friend{}).
		Where("status = ?", model.FriendStatusAccepted).
		Where("user_id = ? OR friend_id = ?", userID, userID)
}

func (r *friendRepository) ListFriends(ctx context.Context, userID string, offset, limit int) ([]*FriendProfile, error) {
	var edges []*model.Friend
	if err := r.friendsQuery(ctx, userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&edges).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		if e.UserID == userID {
			ids[i] = e.FriendID
		} else {
			ids[i] = e.UserID
		}
	}
	return r.attachProfiles(ctx, edges, ids)
}

func (r *friendRepository) CountFriends(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.friendsQuery(ctx, userID).Count(&cnt).Error
	return cnt, err
}

func (r *friendRepository) ListIncoming(ctx context.Context, userID string, offset, limit int) ([]*FriendProfile, error) {
	var edges []*model.Friend
	if err := r.db.WithContext(ctx).
		Where("friend_id = ? AND status = ?", userID, model.FriendStatusPending).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&edges).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.UserID
	}
	return r.attachProfiles(ctx, edges, ids)
}

func (r *friendRepository) CountIncoming(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Friend{}).
		Where("friend_id = ? AND status = ?", userID, model.FriendStatusPending).
		Count(&cnt).Error
	return cnt, err
}

func (r *friendRepository) attachProfiles(ctx context.Context, edges []*model.Friend, ids []string) ([]*FriendProfile, error) {
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
	res := make([]*FriendProfile, 0, len(edges))
	for i, e := range edges {
		if p, ok := byID[ids[i]]; ok {
			res = append(res, &FriendProfile{Profile: p, Since: e.CreatedAt})
		}
	}
	return res, nil
}
