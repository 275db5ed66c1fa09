package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LFCunha10/lisbonlovesme-sub000/handler"
	"github.com/LFCunha10/lisbonlovesme-sub000/middleware"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

type Options struct {
	AllowOrigin   string
	UploadDir     string
	SecureCookies bool
}

func SetupRoutes(app *fiber.App, opts Options) {
	origin := strings.TrimSpace(opts.AllowOrigin)
	if origin == "" {
		origin = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origin,
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Authorization, Accept, X-CSRF-Token",
		// cors refuses credentials for a wildcard origin.
		AllowCredentials: !strings.Contains(origin, "*"),
		MaxAge:           600,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if opts.UploadDir != "" {
		app.Static("/uploads", opts.UploadDir)
	}

	csrfProtect := csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   opts.SecureCookies,
		Expiration:     12 * time.Hour,
		ContextKey:     "csrf",
	})

	api := app.Group("/api", logger.New())
	api.Get("/csrf-token", csrfProtect, handler.CSRFToken)

	tours := api.Group("/tours")
	tours.Get("/", validate.ListTours(), handler.GetTours)
	tours.Get("/:key", handler.GetTour)

	api.Get("/availabilities", validate.ListAvailabilities(), handler.GetAvailabilities)

	bookings := api.Group("/bookings")
	bookings.Post("/", validate.CreateBooking(), handler.CreateBooking)
	bookings.Get("/ref/:reference", handler.GetBookingByReference)
	bookings.Get("/ref/:reference/qr", handler.GetBookingQRCode)

	api.Post("/discounts/validate", validate.ValidateDiscount(), handler.ValidateDiscount)

	testimonials := api.Group("/testimonials")
	testimonials.Get("/", handler.GetTestimonials)
	testimonials.Post("/", validate.Testimonial(), handler.CreateTestimonial)

	articles := api.Group("/articles")
	articles.Get("/", handler.GetArticles)
	articles.Get("/:slug", handler.GetArticle)

	api.Get("/gallery", handler.GetGallery)
	api.Post("/contact", validate.Contact(), handler.CreateContactMessage)
	api.Post("/visits", validate.Visit(), handler.RecordVisit)

	api.Get("/notifications/ws", middleware.AdminOnly(), handler.RequireUpgrade, handler.NotificationSocket())

	auth := api.Group("/admin")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
	}), validate.Login(), handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/session", middleware.OptionalSession(), handler.GetSession)

	admin := api.Group("/admin", middleware.AdminOnly(), csrfProtect)

	admin.Get("/me", handler.Me)
	admin.Post("/change-password", validate.ChangePassword(), handler.ChangePassword)
	admin.Get("/stats", handler.GetAdminStats)
	admin.Get("/reports/bookings", handler.BookingReport)

	admin.Get("/settings", handler.GetSettings)
	admin.Put("/settings", validate.UpdateSettings(), handler.UpdateSettings)

	adminTours := admin.Group("/tours")
	adminTours.Get("/", validate.ListTours(), handler.GetAdminTours)
	adminTours.Post("/", validate.CreateTour(), handler.CreateTour)
	adminTours.Put("/:tourId", validate.GetById("tourId"), validate.UpdateTour(), handler.UpdateTour)
	adminTours.Delete("/:tourId", validate.GetById("tourId"), handler.DeleteTour)

	availability := admin.Group("/availabilities")
	availability.Get("/", validate.ListAvailabilities(), handler.GetAdminAvailabilities)
	availability.Get("/calendar", handler.GetCalendar)
	availability.Post("/", validate.CreateAvailability(), handler.CreateAvailability)
	availability.Put("/:availabilityId", validate.GetById("availabilityId"), validate.UpdateAvailability(), handler.UpdateAvailability)
	availability.Delete("/:availabilityId", validate.GetById("availabilityId"), handler.DeleteAvailability)

	closed := admin.Group("/closed-days")
	closed.Get("/", validate.ListClosedDays(), handler.GetClosedDays)
	closed.Post("/", validate.CreateClosedDay(), handler.CreateClosedDay)
	closed.Delete("/:closedDayId", validate.GetById("closedDayId"), handler.DeleteClosedDay)

	adminBookings := admin.Group("/bookings")
	adminBookings.Get("/", validate.ListBookings(), handler.GetBookings)
	adminBookings.Get("/:bookingId", validate.GetById("bookingId"), handler.GetBookingById)
	adminBookings.Post("/:bookingId/confirm", validate.GetById("bookingId"), handler.ConfirmBooking)
	adminBookings.Post("/:bookingId/cancel", validate.GetById("bookingId"), handler.CancelBooking)
	adminBookings.Post("/:bookingId/refund", validate.GetById("bookingId"), handler.RefundBooking)
	adminBookings.Post("/:bookingId/payment-intent", validate.GetById("bookingId"), handler.CreatePaymentIntent)
	adminBookings.Delete("/:bookingId", validate.GetById("bookingId"), handler.DeleteBooking)

	discounts := admin.Group("/discounts")
	discounts.Get("/", validate.Paginate(), handler.GetDiscountCodes)
	discounts.Post("/", validate.DiscountCode(), handler.CreateDiscountCode)
	discounts.Put("/:discountId", validate.GetById("discountId"), validate.DiscountCode(), handler.UpdateDiscountCode)
	discounts.Delete("/:discountId", validate.GetById("discountId"), handler.DeleteDiscountCode)

	notifications := admin.Group("/notifications")
	notifications.Get("/", validate.ListNotifications(), handler.GetNotifications)
	notifications.Get("/unread-count", handler.GetUnreadCount)
	notifications.Patch("/read-all", handler.MarkAllNotificationsRead)
	notifications.Patch("/:notificationId/read", validate.GetById("notificationId"), handler.MarkNotificationRead)
	notifications.Delete("/", validate.Delete(), handler.DeleteNotifications)
	notifications.Delete("/:notificationId", validate.GetById("notificationId"), handler.DeleteNotification)

	devices := admin.Group("/devices")
	devices.Post("/", validate.Device(), handler.RegisterDevice)
	devices.Delete("/:token", handler.UnregisterDevice)

	adminTestimonials := admin.Group("/testimonials")
	adminTestimonials.Get("/", handler.GetAdminTestimonials)
	adminTestimonials.Patch("/:testimonialId/approve", validate.GetById("testimonialId"), handler.ApproveTestimonial)
	adminTestimonials.Delete("/:testimonialId", validate.GetById("testimonialId"), handler.DeleteTestimonial)

	adminArticles := admin.Group("/articles")
	adminArticles.Get("/", handler.GetAdminArticles)
	adminArticles.Post("/", validate.Article(), handler.CreateArticle)
	adminArticles.Put("/:articleId", validate.GetById("articleId"), validate.Article(), handler.UpdateArticle)
	adminArticles.Delete("/:articleId", validate.GetById("articleId"), handler.DeleteArticle)

	gallery := admin.Group("/gallery")
	gallery.Post("/", validate.GalleryImage(), handler.CreateGalleryImage)
	gallery.Put("/:imageId", validate.GetById("imageId"), validate.GalleryImage(), handler.UpdateGalleryImage)
	gallery.Delete("/:imageId", validate.GetById("imageId"), handler.DeleteGalleryImage)

	contact := admin.Group("/contact-messages")
	contact.Get("/", validate.Paginate(), handler.GetContactMessages)
	contact.Patch("/:messageId/read", validate.GetById("messageId"), handler.MarkContactMessageRead)
	contact.Delete("/:messageId", validate.GetById("messageId"), handler.DeleteContactMessage)

	uploads := admin.Group("/uploads")
	uploads.Post("/image", handler.UploadImage)
	uploads.Post("/document", handler.UploadDocument)

	documents := admin.Group("/documents")
	documents.Get("/", handler.GetDocuments)
	documents.Delete("/:documentId", validate.GetById("documentId"), handler.DeleteDocument)
}
