package model

import "time"

// Like 点赞，(post_id, user_id) 唯一
type Like struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_like_post;index:idx_like_pair,unique;not null"`
	UserID    string `gorm:"type:varchar(36);index:idx_like_pair,unique;not null"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
