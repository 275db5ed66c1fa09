package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/metrics"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/service"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

// ValidateDiscount prices a prospective booking and reports why a code does
// not apply.
func ValidateDiscount(c *fiber.Ctx) error {
	input := validate.Input[model.ValidateDiscountInput](c)
	db := database.DB.WithContext(c.UserContext())

	var tour model.Tour
	if err := db.First(&tour, input.TourID).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Tour not found"))
	}
	code, err := service.FindDiscountCode(db, model.NormalizeCode(input.Code))
	if err != nil {
		return utils.HandleError(c, err)
	}

	result := helper.EvaluateDiscount(code, tour, input.NumberOfParticipants, time.Now())
	metrics.RecordDiscount(result.Reason)
	return c.JSON(result)
}

func GetDiscountCodes(c *fiber.Ctx) error {
	filter := validate.Filter[model.Pagination](c)
	db := database.DB.WithContext(c.UserContext()).Model(&model.DiscountCode{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var codes []model.DiscountCode
	if err := utils.ApplyPagination(db, filter.Limit, filter.Page).Order("created_at DESC").Find(&codes).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       codes,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func discountFromInput(input model.DiscountCodeInput, code *model.DiscountCode) error {
	if err := copier.Copy(code, &input); err != nil {
		return err
	}
	code.Code = model.NormalizeCode(input.Code)
	code.Active = input.Active == nil || *input.Active
	if input.Category == model.DiscountPercentage && input.Value > 100 {
		return utils.Validation("Percentage discounts cannot exceed 100", nil)
	}
	return nil
}

func CreateDiscountCode(c *fiber.Ctx) error {
	input := validate.Input[model.DiscountCodeInput](c)
	var code model.DiscountCode
	if err := discountFromInput(input, &code); err != nil {
		return utils.HandleError(c, err)
	}

	db := database.DB.WithContext(c.UserContext())
	existing, err := service.FindDiscountCode(db, code.Code)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if existing != nil {
		return utils.HandleError(c, utils.Conflict("Discount code already exists", nil))
	}
	if err := db.Create(&code).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create discount code", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, code)
}

func UpdateDiscountCode(c *fiber.Ctx) error {
	input := validate.Input[model.DiscountCodeInput](c)
	db := database.DB.WithContext(c.UserContext())

	var code model.DiscountCode
	if err := db.First(&code, validate.ID(c)).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Discount code not found"))
	}
	usage := code.UsageCount
	if err := discountFromInput(input, &code); err != nil {
		return utils.HandleError(c, err)
	}
	code.UsageCount = usage
	// clear optional limits that were removed
	code.ValidUntil = input.ValidUntil
	code.UsageLimit = input.UsageLimit

	if err := db.Save(&code).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update discount code", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, code)
}

func DeleteDiscountCode(c *fiber.Ctx) error {
	res := database.DB.WithContext(c.UserContext()).Delete(&model.DiscountCode{}, validate.ID(c))
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not delete discount code", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.HandleError(c, utils.NotFound("Discount code not found", nil))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Discount code deleted"})
}
