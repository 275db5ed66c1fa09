package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func GetNotifications(c *fiber.Ctx) error {
	filter := validate.Filter[model.NotificationFilter](c)
	db := database.DB.WithContext(c.UserContext()).Model(&model.Notification{})
	if filter.Unread {
		db = db.Where("read = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var rows []model.Notification
	if err := utils.ApplyPagination(db, filter.Limit, filter.Page).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       rows,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func GetUnreadCount(c *fiber.Ctx) error {
	var count int64
	if err := database.DB.WithContext(c.UserContext()).Model(&model.Notification{}).Where("read = ?", false).Count(&count).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"count": count})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	result := database.DB.WithContext(c.UserContext()).Model(&model.Notification{}).
		Where("id = ?", validate.ID(c)).
		Update("read", true)
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Notification marked as read"})
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	result := database.DB.WithContext(c.UserContext()).Model(&model.Notification{}).
		Where("read = ?", false).
		Update("read", true)
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"updated": result.RowsAffected})
}

func DeleteNotification(c *fiber.Ctx) error {
	result := database.DB.WithContext(c.UserContext()).Delete(&model.Notification{}, validate.ID(c))
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Notification deleted"})
}

// RegisterDevice stores a push token. Registering a known token refreshes it.
func RegisterDevice(c *fiber.Ctx) error {
	input := validate.Input[model.DeviceInput](c)
	now := time.Now()
	device := model.Device{Token: input.Token, Platform: input.Platform, LastSeenAt: &now}

	err := database.DB.WithContext(c.UserContext()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform", "last_seen_at", "updated_at"}),
	}).Create(&device).Error
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"token": device.Token})
}

func UnregisterDevice(c *fiber.Ctx) error {
	token := c.Params("token")
	if err := database.DB.WithContext(c.UserContext()).Where("token = ?", token).Delete(&model.Device{}).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Device removed"})
}

// RecordVisit raises a visit notification for the admin.
func RecordVisit(c *fiber.Ctx) error {
	input := validate.Input[model.VisitInput](c)
	path := input.Path
	if path == "" {
		path = "/"
	}
	n := &model.Notification{
		Type:    model.NotificationVisit,
		Title:   "New visit",
		Message: fmt.Sprintf("Someone is viewing %s", path),
		Data: map[string]any{
			"path":     path,
			"referrer": input.Referrer,
		},
	}
	if err := deps.Fanout.Notify(c.UserContext(), n); err != nil {
		return utils.HandleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteNotifications removes the notifications listed in {"ids": [...]}.
func DeleteNotifications(c *fiber.Ctx) error {
	input := validate.Input[model.ArrayId](c)
	result := database.DB.WithContext(c.UserContext()).Delete(&model.Notification{}, input.IDs)
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": result.RowsAffected})
}
