package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
)

// PostRepository 帖子仓储接口（评论即 parent_id 非空的帖子）
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	// ListFeed 全局信息流：仅顶层帖，按创建时间倒序。
	// viewerID 为空时只返回 public；否则额外包含自己的帖子
	// 以及 viewer 关注的作者的 followers 可见帖。
	ListFeed(ctx context.Context, viewerID string, offset, limit int) ([]*model.Post, error)
	CountFeed(ctx context.Context, viewerID string) (int64, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	ListComments(ctx context.Context, parentID string, asc bool, offset, limit int) ([]*model.Post, error)
	CountComments(ctx context.Context, parentID string) (int64, error)
	// CountCommentsByParents 按帖子 ID 集合批量统计评论数
	CountCommentsByParents(ctx context.Context, parentIDs []string) (map[string]int64, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Visibility == "" {
		p.Visibility = model.VisibilityPublic
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	// 先删子评论再删本体
	if err := r.db.WithContext(ctx).Where("parent_id = ?", id).Delete(&model.Post{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *postRepository) feedQuery(ctx context.Context, viewerID string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{}).Where("parent_id IS NULL")
	if viewerID == "" {
		return q.Where("visibility = ?", model.VisibilityPublic)
	}
	following := r.db.Model(&model.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)
	return q.Where(
		"visibility = ? OR author_id = ? OR (visibility = ? AND author_id IN (?))",
		model.VisibilityPublic, viewerID, model.VisibilityFollowers, following,
	)
}

func (r *postRepository) ListFeed(ctx context.Context, viewerID string, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.feedQuery(ctx, viewerID).Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *postRepository) CountFeed(ctx context.Context, viewerID string) (int64, error) {
	var cnt int64
	err := r.feedQuery(ctx, viewerID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND parent_id IS NULL", authorID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ? AND parent_id IS NULL", authorID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListComments(ctx context.Context, parentID string, asc bool, offset, limit int) ([]*model.Post, error) {
	order := "created_at DESC"
	if asc {
		order = "created_at ASC"
	}
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order(order).Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *postRepository) CountComments(ctx context.Context, parentID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("parent_id = ?", parentID).Count(&cnt).Error
	return cnt, err
}

type parentCount struct {
	ParentID string
	Cnt      int64
}

func (r *postRepository) CountCommentsByParents(ctx context.Context, parentIDs []string) (map[string]int64, error) {
	res := make(map[string]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return res, nil
	}
	var rows []parentCount
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Select("parent_id AS parent_id, COUNT(*) AS cnt").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.ParentID] = row.Cnt
	}
	return res, nil
}
