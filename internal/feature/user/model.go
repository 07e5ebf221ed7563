package user

import "time"

// DocumentModel SQL 后端里的一行 = 一个完整文档
type DocumentModel struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Body      string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DocumentModel) TableName() string { return "documents" }
