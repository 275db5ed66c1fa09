package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/storage"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func saveUpload(c *fiber.Ctx, kind storage.Kind) (storage.Object, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return storage.Object{}, "", utils.Validation("Missing file", err)
	}
	f, err := file.Open()
	if err != nil {
		return storage.Object{}, "", err
	}
	defer f.Close()

	obj, err := deps.Files.Save(c.UserContext(), kind, f, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return storage.Object{}, "", err
	}
	return obj, file.Filename, nil
}

func removeStored(c *fiber.Ctx, key string) {
	if key == "" {
		return
	}
	if err := deps.Files.Delete(c.UserContext(), key); err != nil {
		logger.Log.Warn("failed to remove stored file", zap.String("key", key), zap.Error(err))
	}
}

// UploadImage stores an image and returns its URL and storage key. The caller
// attaches it to a tour, article or gallery entry.
func UploadImage(c *fiber.Ctx) error {
	obj, _, err := saveUpload(c, storage.Image)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, obj)
}

func UploadDocument(c *fiber.Ctx) error {
	obj, filename, err := saveUpload(c, storage.Document)
	if err != nil {
		return utils.HandleError(c, err)
	}

	doc := model.Document{
		Name:       filename,
		URL:        obj.URL,
		StorageKey: obj.Key,
		MimeType:   obj.MIME,
		Size:       obj.Size,
	}
	if err := database.DB.WithContext(c.UserContext()).Create(&doc).Error; err != nil {
		removeStored(c, obj.Key)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not save document", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, doc)
}

func GetDocuments(c *fiber.Ctx) error {
	var rows []model.Document
	if err := database.DB.WithContext(c.UserContext()).Order("created_at DESC").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}

func DeleteDocument(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	var doc model.Document
	if err := db.First(&doc, validate.ID(c)).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Document not found"))
	}
	if err := db.Delete(&doc).Error; err != nil {
		return utils.HandleError(c, err)
	}
	removeStored(c, doc.StorageKey)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Document deleted"})
}
