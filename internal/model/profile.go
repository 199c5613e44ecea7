package model

import "time"

// DM 私信隐私设置
const (
	DMPrivacyFriends  = "friends"
	DMPrivacyEveryone = "everyone"
)

// Profile 用户资料（ID 来自身份服务，与 auth 账号共用）
type Profile struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Username    string `gorm:"type:varchar(20);uniqueIndex:idx_profile_username;not null"`
	DisplayName string `gorm:"type:varchar(50)"`
	AvatarURL   string `gorm:"type:text"`
	Bio         string `gorm:"type:text"`
	// friends: 仅好友可发私信；everyone: 任何人可发
	DMPrivacy string `gorm:"type:varchar(16);default:friends;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Profile) TableName() string { return "profiles" }
