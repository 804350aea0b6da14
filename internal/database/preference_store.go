package database

import (
	"errors"
	"fmt"

	"github.com/Hemu21/crowdfunding/internal/model"
	"gorm.io/gorm"
)

// PreferenceStore 本地偏好存取
type PreferenceStore struct {
	db *gorm.DB
}

// NewPreferenceStore 创建偏好存取器
func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Get 读取偏好值, 不存在时返回空字符串
func (s *PreferenceStore) Get(key string) (string, error) {
	var pref model.PreferenceModel
	if err := s.db.First(&pref, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return pref.Value, nil
}

// Put 写入偏好值
func (s *PreferenceStore) Put(key, value string) error {
	pref := model.PreferenceModel{Key: key, Value: value}
	if err := s.db.Save(&pref).Error; err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}
