package model

import "time"

// 好友关系状态
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// Friend 好友关系：一条记录表示一对用户（UserID 为发起方），
// status=accepted 才算好友，查询时两个方向都要查。
type Friend struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_friend_user;index:idx_friend_pair,unique;not null"`
	FriendID  string `gorm:"type:varchar(36);index:idx_friend_friend;index:idx_friend_pair,unique;not null"`
	Status    string `gorm:"type:varchar(16);default:pending;not null;index:idx_friend_status"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Friend) TableName() string { return "friends" }
