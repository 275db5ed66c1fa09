package model

import "time"

// SettingsRowID is the primary key of the single admin_settings row.
const SettingsRowID = 1

type AdminSetting struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	AutoCloseDay bool      `gorm:"not null" json:"autoCloseDay"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UpdateSettingsInput struct {
	AutoCloseDay *bool `json:"autoCloseDay" validate:"required"`
}
