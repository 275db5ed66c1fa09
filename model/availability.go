package model

import "github.com/LFCunha10/lisbonlovesme-sub000/utils"

// Availability is a bookable date+time slot of a tour.
// Invariant: 0 <= SpotsLeft <= MaxSpots.
type Availability struct {
	DTO
	TourID    uint       `gorm:"not null;index" json:"tourId"`
	Tour      *Tour      `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"tour,omitempty"`
	Date      utils.Date `gorm:"type:date;not null;index" json:"date"`
	Time      string     `gorm:"size:5;not null" json:"time"`
	MaxSpots  int        `gorm:"not null" json:"maxSpots"`
	SpotsLeft int        `gorm:"not null" json:"spotsLeft"`
}

type AvailabilityInput struct {
	TourID    uint   `json:"tourId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	MaxSpots  int    `json:"maxSpots" validate:"required,min=1"`
	SpotsLeft *int   `json:"spotsLeft" validate:"omitempty,min=0"`
}

type UpdateAvailabilityInput struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time      *string `json:"time" validate:"omitempty,datetime=15:04"`
	MaxSpots  *int    `json:"maxSpots" validate:"omitempty,min=1"`
	SpotsLeft *int    `json:"spotsLeft" validate:"omitempty,min=0"`
}

type AvailabilityFilter struct {
	TourID uint   `query:"tourId"`
	Date   string `query:"date"`
	From   string `query:"from"`
	To     string `query:"to"`
}

// CalendarDay is one row of the admin calendar view.
type CalendarDay struct {
	Date           string         `json:"date"`
	Closed         bool           `json:"closed"`
	ClosedReason   string         `json:"closedReason,omitempty"`
	Slots          []Availability `json:"slots"`
	BookingCount   int64          `json:"bookingCount"`
	ParticipantSum int64          `json:"participantSum"`
}
