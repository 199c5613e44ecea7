package model

import "time"

// Block 拉黑关系（单向记录，私信校验时双向生效）
type Block struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	BlockerID string `gorm:"type:varchar(36);index:idx_block_blocker;index:idx_block_pair,unique;not null"`
	BlockedID string `gorm:"type:varchar(36);index:idx_block_pair,unique;not null"`
	CreatedAt time.Time
}

func (Block) TableName() string { return "blocks" }
