package helper

import (
	"time"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

// Rejection reasons reported by EvaluateDiscount.
const (
	ReasonNotFound         = "not_found"
	ReasonInactive         = "inactive"
	ReasonExpired          = "expired"
	ReasonUsageExhausted   = "usage_exhausted"
	ReasonCategoryMismatch = "category_mismatch"
	ReasonInvalidCategory  = "invalid_category"
)

var reasonMessages = map[string]string{
	ReasonNotFound:         "Discount code not found",
	ReasonInactive:         "Discount code is not active",
	ReasonExpired:          "Discount code has expired",
	ReasonUsageExhausted:   "Discount code usage limit reached",
	ReasonCategoryMismatch: "Free tour codes only apply to per-person tours",
	ReasonInvalidCategory:  "Discount code has an unknown category",
}

// DiscountResult is the outcome of pricing a prospective booking.
// When Valid is false DiscountAmount is 0 and TotalAmount equals
// OriginalAmount.
type DiscountResult struct {
	Valid          bool   `json:"valid"`
	Reason         string `json:"reason,omitempty"`
	Message        string `json:"message,omitempty"`
	Code           string `json:"code,omitempty"`
	Category       string `json:"category,omitempty"`
	OriginalAmount int64  `json:"originalAmount"`
	DiscountAmount int64  `json:"discountAmount"`
	TotalAmount    int64  `json:"totalAmount"`
}

// OriginalAmount is the undiscounted price of a booking.
func OriginalAmount(tour model.Tour, participants int) int64 {
	if tour.IsPerGroup() {
		return tour.Price
	}
	return tour.Price * int64(participants)
}

// EvaluateDiscount prices a booking of participants on tour with code applied.
// A nil code means the code was not found.
func EvaluateDiscount(code *model.DiscountCode, tour model.Tour, participants int, now time.Time) DiscountResult {
	original := OriginalAmount(tour, participants)
	result := DiscountResult{
		OriginalAmount: original,
		TotalAmount:    original,
	}
	if code == nil {
		return reject(result, ReasonNotFound)
	}
	result.Code = code.Code
	result.Category = code.Category

	if !code.Active {
		return reject(result, ReasonInactive)
	}
	if code.ValidUntil != nil && !code.ValidUntil.After(now) {
		return reject(result, ReasonExpired)
	}
	if code.UsageLimit != nil && code.UsageCount >= *code.UsageLimit {
		return reject(result, ReasonUsageExhausted)
	}

	var discount int64
	switch code.Category {
	case model.DiscountPercentage:
		// floor(original * value / 100); original and value are non-negative
		discount = original * code.Value / 100
	case model.DiscountFixedValue:
		discount = min(code.Value, original)
	case model.DiscountFreeTour:
		if tour.IsPerGroup() {
			return reject(result, ReasonCategoryMismatch)
		}
		discount = min(code.Value, int64(participants)) * tour.Price
	default:
		return reject(result, ReasonInvalidCategory)
	}
	discount = max(0, min(discount, original))

	result.Valid = true
	result.DiscountAmount = discount
	result.TotalAmount = max(0, original-discount)
	return result
}

func reject(result DiscountResult, reason string) DiscountResult {
	result.Valid = false
	result.Reason = reason
	result.Message = reasonMessages[reason]
	result.DiscountAmount = 0
	result.TotalAmount = result.OriginalAmount
	return result
}
