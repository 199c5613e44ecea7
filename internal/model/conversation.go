package model

import "time"

// Conversation 私信会话。User1ID/User2ID 按字典序存放
// （user1 < user2），同一对用户无论谁发起都只有一行。
type Conversation struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	User1ID   string `gorm:"type:varchar(36);index:idx_conv_user1;index:idx_conv_pair,unique;not null"`
	User2ID   string `gorm:"type:varchar(36);index:idx_conv_user2;index:idx_conv_pair,unique;not null"`
	CreatedAt time.Time
}

func (Conversation) TableName() string { return "conversations" }
