package service

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

// CloseDay marks date as closed. An automatic closure never replaces an
// existing one; a manual closure takes over the date so that freeing spots
// later cannot reopen it.
func CloseDay(tx *gorm.DB, date utils.Date, reason string) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}
	if reason != model.ClosedFull && reason != model.ClosedAuto {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "updated_at"}),
		}
	}
	day := model.ClosedDay{Date: date, Reason: reason}
	if err := tx.Clauses(onConflict).Create(&day).Error; err != nil {
		return fmt.Errorf("close %s: %w", date, err)
	}
	return nil
}

// reopenFullDay removes a closure that only exists because the date sold out,
// once no slot on that date is still full.
func reopenFullDay(tx *gorm.DB, date utils.Date) error {
	full := tx.Session(&gorm.Session{NewDB: true}).Model(&model.Availability{}).
		Select("1").Where("date = ? AND spots_left <= 0", date)
	err := tx.Where("date = ? AND reason = ?", date, model.ClosedFull).
		Where("NOT EXISTS (?)", full).
		Delete(&model.ClosedDay{}).Error
	if err != nil {
		return fmt.Errorf("reopen %s: %w", date, err)
	}
	return nil
}

func isClosed(tx *gorm.DB, date utils.Date) (bool, error) {
	var n int64
	if err := tx.Model(&model.ClosedDay{}).Where("date = ?", date).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check closed day: %w", err)
	}
	return n > 0, nil
}
