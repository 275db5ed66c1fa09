package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

// SeedData fills an empty development database with a sample tour, a week of
// slots and a few discount codes.
func SeedData(db *gorm.DB) {
	var count int64
	db.Model(&model.Tour{}).Count(&count)
	if count > 0 {
		return
	}

	tour := model.Tour{
		Slug: "alfama-walking-tour",
		Name: datatypes.NewJSONType(model.Translations{
			"en": "Alfama Walking Tour",
			"pt": "Passeio a pé por Alfama",
		}),
		Description: datatypes.NewJSONType(model.Translations{
			"en": "Discover the oldest district of Lisbon.",
			"pt": "Descubra o bairro mais antigo de Lisboa.",
		}),
		Duration:     datatypes.NewJSONType(model.Translations{"en": "3 hours", "pt": "3 horas"}),
		Difficulty:   datatypes.NewJSONType(model.Translations{"en": "Easy", "pt": "Fácil"}),
		Price:        4500,
		PriceType:    model.PricePerPerson,
		MaxGroupSize: 12,
		Active:       true,
	}
	if err := db.Create(&tour).Error; err != nil {
		logger.Log.Warn("failed to seed tour", zap.Error(err))
		return
	}

	today := utils.DateOf(time.Now())
	for i := 1; i <= 7; i++ {
		for _, slot := range []string{"10:00", "15:00"} {
			a := model.Availability{
				TourID:    tour.ID,
				Date:      utils.Date{Time: today.AddDate(0, 0, i)},
				Time:      slot,
				MaxSpots:  tour.MaxGroupSize,
				SpotsLeft: tour.MaxGroupSize,
			}
			if err := db.Create(&a).Error; err != nil {
				logger.Log.Warn("failed to seed availability", zap.Error(err))
			}
		}
	}

	codes := []model.DiscountCode{
		{Code: "SAVE10", Category: model.DiscountPercentage, Value: 10, Active: true},
		{Code: "FREE1", Category: model.DiscountFreeTour, Value: 1, Active: true, UsageLimit: utils.Ptr(20)},
	}
	for _, c := range codes {
		if err := db.Where(model.DiscountCode{Code: c.Code}).FirstOrCreate(&c).Error; err != nil {
			logger.Log.Warn("failed to seed discount code", zap.String("code", c.Code), zap.Error(err))
		}
	}
}
