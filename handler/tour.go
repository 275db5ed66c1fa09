package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func listTours(c *fiber.Ctx, onlyActive bool) error {
	filter := validate.Filter[model.TourFilter](c)
	db := database.DB.WithContext(c.UserContext()).Model(&model.Tour{})
	if onlyActive {
		db = db.Where("active = ?", true)
	} else if filter.Active != nil {
		db = db.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var tours []model.Tour
	if err := utils.ApplyPagination(db, filter.Limit, filter.Page).Order("id").Find(&tours).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       tours,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func GetTours(c *fiber.Ctx) error {
	return listTours(c, true)
}

func GetAdminTours(c *fiber.Ctx) error {
	return listTours(c, false)
}

// GetTour looks a public tour up by numeric id or by slug.
func GetTour(c *fiber.Ctx) error {
	key := c.Params("key")
	db := database.DB.WithContext(c.UserContext()).Where("active = ?", true)
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		db = db.Where("id = ?", id)
	} else {
		db = db.Where("slug = ?", key)
	}

	var tour model.Tour
	if err := db.First(&tour).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Tour not found"))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tour)
}

func CreateTour(c *fiber.Ctx) error {
	input := validate.Input[model.CreateTourInput](c)
	db := database.DB.WithContext(c.UserContext())

	tour := model.Tour{
		Slug:         helper.GenerateUniqueSlug(db, "tours", input.Name.In(model.DefaultLanguage), 0),
		Name:         datatypes.NewJSONType(input.Name),
		Description:  datatypes.NewJSONType(input.Description),
		Duration:     datatypes.NewJSONType(input.Duration),
		Difficulty:   datatypes.NewJSONType(input.Difficulty),
		Price:        input.Price,
		PriceType:    input.PriceType,
		MaxGroupSize: input.MaxGroupSize,
		Active:       input.Active == nil || *input.Active,
		ImageURL:     input.ImageURL,
	}
	if err := db.Create(&tour).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create tour", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, tour)
}

func UpdateTour(c *fiber.Ctx) error {
	input := validate.Input[model.UpdateTourInput](c)
	db := database.DB.WithContext(c.UserContext())

	var tour model.Tour
	if err := db.First(&tour, validate.ID(c)).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Tour not found"))
	}

	if len(input.Name) > 0 {
		tour.Name = datatypes.NewJSONType(input.Name)
		tour.Slug = helper.GenerateUniqueSlug(db, "tours", input.Name.In(model.DefaultLanguage), tour.ID)
	}
	if input.Description != nil {
		tour.Description = datatypes.NewJSONType(input.Description)
	}
	if input.Duration != nil {
		tour.Duration = datatypes.NewJSONType(input.Duration)
	}
	if input.Difficulty != nil {
		tour.Difficulty = datatypes.NewJSONType(input.Difficulty)
	}
	if input.Price != nil {
		tour.Price = *input.Price
	}
	if input.PriceType != nil {
		tour.PriceType = *input.PriceType
	}
	if input.MaxGroupSize != nil {
		tour.MaxGroupSize = *input.MaxGroupSize
	}
	if input.Active != nil {
		tour.Active = *input.Active
	}
	if input.ImageURL != nil {
		tour.ImageURL = *input.ImageURL
	}

	if err := db.Save(&tour).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update tour", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tour)
}

// DeleteTour removes a tour that has no bookings. Tours with bookings should
// be deactivated instead.
func DeleteTour(c *fiber.Ctx) error {
	id := validate.ID(c)
	err := database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var tour model.Tour
		if err := tx.First(&tour, id).Error; err != nil {
			return utils.NotFoundOr(err, "Tour not found")
		}
		var bookings int64
		if err := tx.Model(&model.Booking{}).Where("tour_id = ?", id).Count(&bookings).Error; err != nil {
			return err
		}
		if bookings > 0 {
			return utils.Conflict("Tour has bookings, deactivate it instead", nil)
		}
		return tx.Delete(&tour).Error
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Tour deleted"})
}
