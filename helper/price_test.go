package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func perPerson(price int64) model.Tour {
	return model.Tour{Price: price, PriceType: model.PricePerPerson}
}

func perGroup(price int64) model.Tour {
	return model.Tour{Price: price, PriceType: model.PricePerGroup}
}

func code(category string, value int64) *model.DiscountCode {
	return &model.DiscountCode{Code: "X", Category: category, Value: value, Active: true}
}

func TestOriginalAmount(t *testing.T) {
	for _, n := range []int{1, 2, 7, 30} {
		assert.Equal(t, int64(12000), OriginalAmount(perGroup(12000), n), "per_group ignores participants")
		assert.Equal(t, int64(4500*n), OriginalAmount(perPerson(4500), n))
	}
}

func TestEvaluateDiscountScenarios(t *testing.T) {
	tests := []struct {
		name         string
		tour         model.Tour
		participants int
		code         *model.DiscountCode
		discount     int64
		total        int64
	}{
		{"percentage SAVE10", perPerson(4500), 2, code(model.DiscountPercentage, 10), 900, 8100},
		{"percentage floors", perPerson(333), 1, code(model.DiscountPercentage, 10), 33, 300},
		{"percentage over 100 is capped", perPerson(1000), 1, code(model.DiscountPercentage, 150), 1000, 0},
		{"fixed below original", perPerson(4500), 2, code(model.DiscountFixedValue, 1000), 1000, 8000},
		{"fixed capped at original", perGroup(2500), 4, code(model.DiscountFixedValue, 9999), 2500, 0},
		{"free tour one of three", perPerson(3000), 3, code(model.DiscountFreeTour, 1), 3000, 6000},
		{"free tour capped at participants", perPerson(3000), 2, code(model.DiscountFreeTour, 5), 6000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateDiscount(tt.code, tt.tour, tt.participants, now)
			assert.True(t, res.Valid)
			assert.Equal(t, tt.discount, res.DiscountAmount)
			assert.Equal(t, tt.total, res.TotalAmount)
			assert.GreaterOrEqual(t, res.TotalAmount, int64(0))
			assert.Equal(t, max(0, res.OriginalAmount-res.DiscountAmount), res.TotalAmount)
		})
	}
}

func TestEvaluateDiscountRejections(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	limit := 3

	expired := code(model.DiscountPercentage, 10)
	expired.ValidUntil = &past

	stillValid := code(model.DiscountPercentage, 10)
	stillValid.ValidUntil = &future

	exhausted := code(model.DiscountPercentage, 10)
	exhausted.UsageLimit = &limit
	exhausted.UsageCount = 3

	inactive := code(model.DiscountPercentage, 10)
	inactive.Active = false

	tests := []struct {
		name   string
		tour   model.Tour
		code   *model.DiscountCode
		reason string
	}{
		{"missing", perPerson(4500), nil, ReasonNotFound},
		{"inactive", perPerson(4500), inactive, ReasonInactive},
		{"expired", perPerson(4500), expired, ReasonExpired},
		{"exhausted", perPerson(4500), exhausted, ReasonUsageExhausted},
		{"free tour on group", perGroup(9000), code(model.DiscountFreeTour, 1), ReasonCategoryMismatch},
		{"unknown category", perPerson(4500), code("bogo", 1), ReasonInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateDiscount(tt.code, tt.tour, 2, now)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
			assert.NotEmpty(t, res.Message)
			assert.Zero(t, res.DiscountAmount)
			assert.Equal(t, res.OriginalAmount, res.TotalAmount)
		})
	}

	res := EvaluateDiscount(stillValid, perPerson(4500), 2, now)
	assert.True(t, res.Valid)
}

func TestEvaluateDiscountExpiryBoundary(t *testing.T) {
	c := code(model.DiscountFixedValue, 100)
	c.ValidUntil = &now
	assert.Equal(t, ReasonExpired, EvaluateDiscount(c, perPerson(1000), 1, now).Reason)
}
