package model

import "time"

// 帖子可见范围
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
)

// Post 内容主体（语音/文字）。ParentID 非空时表示其为某帖的评论。
type Post struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	AuthorID   string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	ParentID   *string   `gorm:"type:varchar(36);index:idx_post_parent"`
	Text       string    `gorm:"type:text"`
	AudioURL   string    `gorm:"type:text"`
	Visibility string    `gorm:"type:varchar(16);default:public;not null"`
	CreatedAt  time.Time `gorm:"index:idx_post_created"`
	UpdatedAt  time.Time
}

func (Post) TableName() string { return "posts" }
