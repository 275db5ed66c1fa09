package service

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

// SettingsStore caches the admin settings row.
type SettingsStore struct {
	db     *gorm.DB
	mu     sync.RWMutex
	cached *model.AdminSetting
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context) (model.AdminSetting, error) {
	s.mu.RLock()
	if s.cached != nil {
		defer s.mu.RUnlock()
		return *s.cached, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}
	row := model.AdminSetting{ID: model.SettingsRowID}
	if err := s.db.WithContext(ctx).FirstOrCreate(&row, model.AdminSetting{ID: model.SettingsRowID}).Error; err != nil {
		return model.AdminSetting{}, fmt.Errorf("load settings: %w", err)
	}
	s.cached = &row
	return row, nil
}

func (s *SettingsStore) Update(ctx context.Context, input model.UpdateSettingsInput) (model.AdminSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := model.AdminSetting{ID: model.SettingsRowID}
	if input.AutoCloseDay != nil {
		row.AutoCloseDay = *input.AutoCloseDay
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return model.AdminSetting{}, fmt.Errorf("save settings: %w", err)
	}
	s.cached = &row
	return row, nil
}

// Invalidate drops the cached row so the next Get reloads it.
func (s *SettingsStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
