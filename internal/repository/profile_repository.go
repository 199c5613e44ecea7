package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
)

// ProfileRepository 用户资料仓储接口
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	// UsernameTaken 检查用户名是否已被 excludeID 以外的用户占用
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	Update(ctx context.Context, p *model.Profile) error
	Delete(ctx context.Context, id string) error
	// List 用户目录查询：search 对 username / display_name 做不区分大小写的模糊匹配，
	// excludeID 用于排除当前用户自己
	List(ctx context.Context, search, excludeID string, offset, limit int) ([]*model.Profile, error)
	Count(ctx context.Context, search, excludeID string) (int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]*model.Profile, error)
}

type profileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	var cnt int64
	q := r.db.WithContext(ctx).Model(&model.Profile{}).Where("username = ?", username)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Profile{}).Error
}

func (r *profileRepository) listQuery(ctx context.Context, search, excludeID string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Profile{})
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern)
	}
	return q
}

func (r *profileRepository) List(ctx context.Context, search, excludeID string, offset, limit int) ([]*model.Profile, error) {
	var res []*model.Profile
	err := r.listQuery(ctx, search, excludeID).Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *profileRepository) Count(ctx context.Context, search, excludeID string) (int64, error) {
	var cnt int64
	err := r.listQuery(ctx, search, excludeID).Count(&cnt).Error
	return cnt, err
}

func (r *profileRepository) ListByIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.Profile
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}
