package handler

import (
	"github.com/LFCunha10/lisbonlovesme-sub000/notify"
	"github.com/LFCunha10/lisbonlovesme-sub000/service"
	"github.com/LFCunha10/lisbonlovesme-sub000/storage"
)

// Deps are the services the handlers share. Init must run before the router
// serves requests.
type Deps struct {
	Bookings  *service.BookingService
	Settings  *service.SettingsStore
	Fanout    *notify.Fanout
	Hub       *notify.Hub
	Files     storage.Store
	PublicURL string
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

var deps Deps

func Init(d Deps) {
	deps = d
}
