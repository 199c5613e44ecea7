package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
)

// FollowedProfile 关注列表条目（对方资料 + 关注时间）
type FollowedProfile struct {
	Profile    *model.Profile
	FollowedAt time.Time
}

type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID string) error
	// Delete 返回是否真的删掉了一条关注记录
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	// ListFollowing 我关注的人，ListFollowers 关注我的人，均附带资料
	ListFollowing(ctx context.Context, followerID string) ([]*FollowedProfile, error)
	ListFollowers(ctx context.Context, followingID string) ([]*FollowedProfile, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) error {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID}
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) list(ctx context.Context, where, whereID, pick string) ([]*FollowedProfile, error) {
	var follows []*model.Follow
	if err := r.db.WithContext(ctx).Where(where+" = ?", whereID).
		Order("created_at DESC").Find(&follows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(follows))
	for i, f := range follows {
		if pick == "following_id" {
			ids[i] = f.FollowingID
		} else {
			ids[i] = f.FollowerID
		}
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
	res := make([]*FollowedProfile, 0, len(follows))
	for i, f := range follows {
		if p, ok := byID[ids[i]]; ok {
			res = append(res, &FollowedProfile{Profile: p, FollowedAt: f.CreatedAt})
		}
	}
	return res, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string) ([]*FollowedProfile, error) {
	return r.list(ctx, "follower_id", followerID, "following_id")
}

func (r *followRepository) ListFollowers(ctx context.Context, followingID string) ([]*FollowedProfile, error) {
	return r.list(ctx, "following_id", followingID, "follower_id")
}
