package model

import "github.com/LFCunha10/lisbonlovesme-sub000/utils"

const (
	ClosedByAdmin = "manual"
	ClosedFull    = "fully_booked"
	ClosedAuto    = "auto_close"
)

// ClosedDay marks a date unavailable for every tour. One row per date.
type ClosedDay struct {
	DTO
	Date   utils.Date `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Reason string     `gorm:"size:255" json:"reason"`
}

type CreateClosedDayInput struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type ClosedDayFilter struct {
	Pagination
	From string `query:"from"`
	To   string `query:"to"`
}
