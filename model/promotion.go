package model

import (
	"strings"
	"time"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixedValue = "fixed_value"
	DiscountFreeTour   = "free_tour"
)

// DiscountCode value semantics depend on Category: a percent for percentage,
// minor currency units for fixed_value, number of free participants for
// free_tour.
type DiscountCode struct {
	DTO
	Code        string     `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:20;not null" json:"category"`
	Value       int64      `gorm:"not null" json:"value"`
	ValidUntil  *time.Time `json:"validUntil"`
	UsageLimit  *int       `json:"usageLimit"`
	UsageCount  int        `gorm:"not null;default:0" json:"usageCount"`
	Active      bool       `gorm:"not null" json:"active"`
}

// NormalizeCode trims and upper-cases a discount code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type DiscountCodeInput struct {
	Code        string     `json:"code" validate:"required,min=2,max=50"`
	Description string     `json:"description" validate:"omitempty,max=1000"`
	Category    string     `json:"category" validate:"required,oneof=percentage fixed_value free_tour"`
	Value       int64      `json:"value" validate:"required,min=1"`
	ValidUntil  *time.Time `json:"validUntil"`
	UsageLimit  *int       `json:"usageLimit" validate:"omitempty,min=1"`
	Active      *bool      `json:"active"`
}

type ValidateDiscountInput struct {
	Code                 string `json:"code" validate:"required,max=50"`
	TourID               uint   `json:"tourId" validate:"required"`
	NumberOfParticipants int    `json:"numberOfParticipants" validate:"required,min=1"`
}
