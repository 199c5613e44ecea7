package model

import "time"

// Message 会话内的一条私信（文字或语音）
type Message struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)"`
	ConversationID string    `gorm:"type:varchar(36);index:idx_message_conv;not null"`
	SenderID       string    `gorm:"type:varchar(36);not null"`
	Text           string    `gorm:"type:text"`
	AudioURL       string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"index:idx_message_created"`
}

func (Message) TableName() string { return "messages" }
