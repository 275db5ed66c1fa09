package validate

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

func CreateTour() fiber.Handler {
	return Body[model.CreateTourInput]()
}

func UpdateTour() fiber.Handler {
	return Body[model.UpdateTourInput]()
}

func ListTours() fiber.Handler {
	return Query[model.TourFilter]()
}

func Login() fiber.Handler {
	return Body[model.LoginInput]()
}

func Contact() fiber.Handler {
	return Body[model.ContactMessageInput]()
}

func Testimonial() fiber.Handler {
	return Body[model.TestimonialInput]()
}

func Article() fiber.Handler {
	return Body[model.ArticleInput]()
}

func GalleryImage() fiber.Handler {
	return Body[model.GalleryImageInput]()
}

func Device() fiber.Handler {
	return Body[model.DeviceInput]()
}

func Visit() fiber.Handler {
	return Body[model.VisitInput]()
}

func ListNotifications() fiber.Handler {
	return Query[model.NotificationFilter]()
}

func Paginate() fiber.Handler {
	return Query[model.Pagination]()
}

func ChangePassword() fiber.Handler {
	return Body[model.ChangePasswordInput]()
}
