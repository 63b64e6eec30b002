package model

import "time"

// Job 由运单模块维护，这里只声明文档需要的只读字段，用于存在性检查与外键.
type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"size:64;index" json:"reference"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 固定表名.
func (Job) TableName() string {
	return "jobs"
}
