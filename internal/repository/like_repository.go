package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
)

// LikedProfile 点赞列表条目（点赞人资料 + 点赞时间）
type LikedProfile struct {
	Profile *model.Profile
	LikedAt time.Time
}

// LikeRepository 点赞仓储接口
type LikeRepository interface {
	Create(ctx context.Context, postID, userID string) error
	Delete(ctx context.Context, postID, userID string) error
	Exists(ctx context.Context, postID, userID string) (bool, error)
	// CountByPosts / ExistsByPosts 按帖子 ID 集合批量取数，供信息流做一次性富化
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	ExistsByPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	ListByPost(ctx context.Context, postID string) ([]*LikedProfile, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, postID, userID string) error {
	l := &model.Like{ID: uuid.New().String(), PostID: postID, UserID: userID}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.Like{}).Error
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

type postCount struct {
	PostID string
	Cnt    int64
}

func (r *likeRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	res := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return res, nil
	}
	var rows []postCount
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select("post_id AS post_id, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.PostID] = row.Cnt
	}
	return res, nil
}

func (r *likeRepository) ExistsByPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	res := make(map[string]bool, len(postIDs))
	if userID == "" || len(postIDs) == 0 {
		return res, nil
	}
	var liked []string
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		res[id] = true
	}
	return res, nil
}

func (r *likeRepository) ListByPost(ctx context.Context, postID string) ([]*LikedProfile, error) {
	var likes []*model.Like
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").Find(&likes).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(likes))
	for i, l := range likes {
		ids[i] = l.UserID
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
	res := make([]*LikedProfile, 0, len(likes))
	for _, l := range likes {
		if p, ok := byID[l.UserID]; ok {
			res = append(res, &LikedProfile{Profile: p, LikedAt: l.CreatedAt})
		}
	}
	return res, nil
}
