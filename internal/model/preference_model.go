package model

import (
	"time"
)

// PreferenceModel 本地持久化偏好, 目前仅存储主题
type PreferenceModel struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 偏好键
const (
	PreferenceKeyTheme = "theme"
)

// 主题取值
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// TableName 自定义表名
func (PreferenceModel) TableName() string {
	return "preference"
}
