package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/LFCunha10/lisbonlovesme-sub000/database"
	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

// notifyAdmin raises an admin notification after a public submission has been
// stored. The submission stands even if the notification fails.
func notifyAdmin(c *fiber.Ctx, n *model.Notification) {
	if deps.Fanout == nil {
		return
	}
	if err := deps.Fanout.Notify(c.UserContext(), n); err != nil {
		logger.Log.Warn("failed to notify admin", zap.String("type", n.Type), zap.Error(err))
	}
}

// Testimonials

func GetTestimonials(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext()).Where("approved = ?", true)
	if tourID := c.QueryInt("tourId"); tourID > 0 {
		db = db.Where("tour_id = ?", tourID)
	}
	var rows []model.Testimonial
	if err := db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}

func GetAdminTestimonials(c *fiber.Ctx) error {
	var rows []model.Testimonial
	if err := database.DB.WithContext(c.UserContext()).Preload("Tour").Order("approved, created_at DESC").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}

// CreateTestimonial stores a review for moderation. It stays hidden until an
// admin approves it.
func CreateTestimonial(c *fiber.Ctx) error {
	input := validate.Input[model.TestimonialInput](c)
	db := database.DB.WithContext(c.UserContext())

	var tour model.Tour
	if err := db.First(&tour, input.TourID).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Tour not found"))
	}

	var testimonial model.Testimonial
	if err := copier.Copy(&testimonial, &input); err != nil {
		return utils.HandleError(c, err)
	}
	testimonial.Approved = false
	if err := db.Create(&testimonial).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not save testimonial", err)
	}

	notifyAdmin(c, &model.Notification{
		Type:    model.NotificationReview,
		Title:   "New review",
		Message: fmt.Sprintf("%s rated %s %d/5", testimonial.AuthorName, tour.DisplayName(model.DefaultLanguage), testimonial.Rating),
		Data:    map[string]any{"testimonialId": testimonial.ID, "tourId": tour.ID},
	})
	return utils.SuccessResponse(c, fiber.StatusCreated, testimonial)
}

func ApproveTestimonial(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	var testimonial model.Testimonial
	if err := db.First(&testimonial, validate.ID(c)).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Testimonial not found"))
	}
	if err := db.Model(&testimonial).Update("approved", true).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, testimonial)
}

func DeleteTestimonial(c *fiber.Ctx) error {
	return deleteByID(c, &model.Testimonial{}, "Testimonial")
}

// Articles

func GetArticles(c *fiber.Ctx) error {
	var rows []model.Article
	if err := database.DB.WithContext(c.UserContext()).Where("published = ?", true).Order("published_at DESC").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}

func GetArticle(c *fiber.Ctx) error {
	var article model.Article
	err := database.DB.WithContext(c.UserContext()).Where("slug = ? AND published = ?", c.Params("slug"), true).First(&article).Error
	if err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Article not found"))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, article)
}

func GetAdminArticles(c *fiber.Ctx) error {
	var rows []model.Article
	if err := database.DB.WithContext(c.UserContext()).Order("created_at DESC").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}

func applyArticle(article *model.Article, input model.ArticleInput) {
	article.Title = datatypes.NewJSONType(input.Title)
	article.Content = datatypes.NewJSONType(input.Content)
	article.CoverImage = input.CoverImage
	if input.Published && !article.Published {
		now := time.Now()
		article.PublishedAt = &now
	}
	if !input.Published {
		article.PublishedAt = nil
	}
	article.Published = input.Published
}

func CreateArticle(c *fiber.Ctx) error {
	input := validate.Input[model.ArticleInput](c)
	db := database.DB.WithContext(c.UserContext())

	var article model.Article
	applyArticle(&article, input)
	article.Slug = helper.GenerateUniqueSlug(db, "articles", input.Title.In(model.DefaultLanguage), 0)
	if err := db.Create(&article).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create article", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, article)
}

func UpdateArticle(c *fiber.Ctx) error {
	input := validate.Input[model.ArticleInput](c)
	db := database.DB.WithContext(c.UserContext())

	var article model.Article
	if err := db.First(&article, validate.ID(c)).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Article not found"))
	}
	applyArticle(&article, input)
	article.Slug = helper.GenerateUniqueSlug(db, "articles", input.Title.In(model.DefaultLanguage), article.ID)
	if err := db.Save(&article).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update article", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, article)
}

func DeleteArticle(c *fiber.Ctx) error {
	return deleteByID(c, &model.Article{}, "Article")
}

// Gallery

func GetGallery(c *fiber.Ctx) error {
	var rows []model.GalleryImage
	if err := database.DB.WithContext(c.UserContext()).Order("sort_order, id").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}

func CreateGalleryImage(c *fiber.Ctx) error {
	input := validate.Input[model.GalleryImageInput](c)

	var image model.GalleryImage
	if err := copier.Copy(&image, &input); err != nil {
		return utils.HandleError(c, err)
	}
	if err := database.DB.WithContext(c.UserContext()).Create(&image).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not save image", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, image)
}

func UpdateGalleryImage(c *fiber.Ctx) error {
	input := validate.Input[model.GalleryImageInput](c)
	db := database.DB.WithContext(c.UserContext())

	var image model.GalleryImage
	if err := db.First(&image, validate.ID(c)).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Image not found"))
	}
	if err := copier.Copy(&image, &input); err != nil {
		return utils.HandleError(c, err)
	}
	if err := db.Save(&image).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update image", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, image)
}

// DeleteGalleryImage removes the row and then the stored file.
func DeleteGalleryImage(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	var image model.GalleryImage
	if err := db.First(&image, validate.ID(c)).Error; err != nil {
		return utils.HandleError(c, utils.NotFoundOr(err, "Image not found"))
	}
	if err := db.Delete(&image).Error; err != nil {
		return utils.HandleError(c, err)
	}
	removeStored(c, image.StorageKey)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Image deleted"})
}

// Contact

func CreateContactMessage(c *fiber.Ctx) error {
	input := validate.Input[model.ContactMessageInput](c)

	var msg model.ContactMessage
	if err := copier.Copy(&msg, &input); err != nil {
		return utils.HandleError(c, err)
	}
	if err := database.DB.WithContext(c.UserContext()).Create(&msg).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not send message", err)
	}

	title := "New contact message"
	if msg.Subject != "" {
		title = fmt.Sprintf("New contact message: %s", msg.Subject)
	}
	notifyAdmin(c, &model.Notification{
		Type:    model.NotificationContact,
		Title:   title,
		Message: fmt.Sprintf("%s <%s>", msg.Name, msg.Email),
		Data:    map[string]any{"contactMessageId": msg.ID},
	})
	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{"id": msg.ID})
}

func GetContactMessages(c *fiber.Ctx) error {
	filter := validate.Filter[model.Pagination](c)
	db := database.DB.WithContext(c.UserContext()).Model(&model.ContactMessage{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var rows []model.ContactMessage
	if err := utils.ApplyPagination(db, filter.Limit, filter.Page).Order("created_at DESC").Find(&rows).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       rows,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func MarkContactMessageRead(c *fiber.Ctx) error {
	result := database.DB.WithContext(c.UserContext()).Model(&model.ContactMessage{}).
		Where("id = ?", validate.ID(c)).
		Update("read", true)
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Message marked as read"})
}

func DeleteContactMessage(c *fiber.Ctx) error {
	return deleteByID(c, &model.ContactMessage{}, "Message")
}

func deleteByID(c *fiber.Ctx, m any, name string) error {
	result := database.DB.WithContext(c.UserContext()).Delete(m, validate.ID(c))
	if result.Error != nil {
		return utils.HandleError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, name+" not found", nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": name + " deleted"})
}
