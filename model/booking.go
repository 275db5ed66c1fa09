package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PaymentRequested = "requested"
	PaymentConfirmed = "confirmed"
	PaymentCancelled = "cancelled"
	PaymentRefunded  = "refunded"
)

var bookingTransitions = map[string][]string{
	PaymentRequested: {PaymentConfirmed, PaymentCancelled, PaymentRefunded},
	PaymentConfirmed: {PaymentCancelled, PaymentRefunded},
}

// CanTransition reports whether an admin action may move a booking from one
// payment status to another. Cancelled and refunded are terminal.
func CanTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PricingInfo is the pricing breakdown kept with each booking.
type PricingInfo struct {
	OriginalAmount   int64  `json:"originalAmount"`
	DiscountAmount   int64  `json:"discountAmount"`
	FinalAmount      int64  `json:"finalAmount"`
	DiscountCode     string `json:"discountCode,omitempty"`
	DiscountCategory string `json:"discountCategory,omitempty"`
}

type Booking struct {
	DTO
	BookingReference     string                           `gorm:"size:10;uniqueIndex;not null" json:"bookingReference"`
	TourID               uint                             `gorm:"not null;index" json:"tourId"`
	Tour                 *Tour                            `gorm:"foreignKey:TourID" json:"tour,omitempty"`
	AvailabilityID       uint                             `gorm:"not null;index" json:"availabilityId"`
	Availability         *Availability                    `gorm:"foreignKey:AvailabilityID" json:"availability,omitempty"`
	CustomerFirstName    string                           `gorm:"size:100;not null" json:"customerFirstName"`
	CustomerLastName     string                           `gorm:"size:100;not null" json:"customerLastName"`
	CustomerEmail        string                           `gorm:"size:255;not null;index" json:"customerEmail"`
	CustomerPhone        string                           `gorm:"size:40" json:"customerPhone"`
	NumberOfParticipants int                              `gorm:"not null" json:"numberOfParticipants"`
	SpecialRequests      string                           `gorm:"type:text" json:"specialRequests"`
	Language             string                           `gorm:"size:5" json:"language"`
	TotalAmount          int64                            `gorm:"not null" json:"totalAmount"`
	PaymentStatus        string                           `gorm:"size:20;not null;index" json:"paymentStatus"`
	PaymentIntentID      string                           `gorm:"size:255" json:"paymentIntentId,omitempty"`
	RefundID             string                           `gorm:"size:255" json:"refundId,omitempty"`
	AdditionalInfo       datatypes.JSONType[PricingInfo] `json:"additionalInfo"`
	ConfirmedAt          *time.Time                       `json:"confirmedAt,omitempty"`
	CancelledAt          *time.Time                       `json:"cancelledAt,omitempty"`
	RefundedAt           *time.Time                       `json:"refundedAt,omitempty"`
}

func (b Booking) CustomerName() string {
	return b.CustomerFirstName + " " + b.CustomerLastName
}

type CreateBookingInput struct {
	TourID               uint   `json:"tourId" validate:"required"`
	AvailabilityID       uint   `json:"availabilityId" validate:"required"`
	CustomerFirstName    string `json:"customerFirstName" validate:"required,max=100"`
	CustomerLastName     string `json:"customerLastName" validate:"required,max=100"`
	CustomerEmail        string `json:"customerEmail" validate:"required,email,max=255"`
	CustomerPhone        string `json:"customerPhone" validate:"required,max=40"`
	NumberOfParticipants int    `json:"numberOfParticipants" validate:"required,min=1,max=100"`
	SpecialRequests      string `json:"specialRequests" validate:"omitempty,max=2000"`
	DiscountCode         string `json:"discountCode" validate:"omitempty,max=50"`
	Language             string `json:"language" validate:"omitempty,oneof=en pt"`
}

type BookingFilter struct {
	Pagination
	Status string `query:"status"`
	TourID uint   `query:"tourId"`
	Date   string `query:"date"`
	Search string `query:"search"`
}
