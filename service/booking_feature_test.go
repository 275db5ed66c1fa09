package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/database/dbtest"
	"github.com/LFCunha10/lisbonlovesme-sub000/helper"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

type bookingFeature struct {
	t        testing.TB
	db       *gorm.DB
	svc      *BookingService
	settings model.AdminSetting
	tour     model.Tour
	slot     model.Availability
	booking  *model.Booking
	result   helper.DiscountResult
	err      error
}

func (f *bookingFeature) reset() {
	f.db = dbtest.New(f.t)
	f.svc = newService(f.db, BookingPolicy{}, nil)
	f.settings = model.AdminSetting{}
	f.tour = model.Tour{}
	f.slot = model.Availability{}
	f.booking = nil
	f.result = helper.DiscountResult{}
	f.err = nil
}

func (f *bookingFeature) aTourPricedAt(priceType string, price int) error {
	f.tour = model.Tour{
		Slug:         "feature-tour",
		Name:         datatypes.NewJSONType(model.Translations{"en": "Feature Tour"}),
		Price:        int64(price),
		PriceType:    priceType,
		MaxGroupSize: 20,
		Active:       true,
	}
	return f.db.Create(&f.tour).Error
}

func (f *bookingFeature) anAvailabilityWithSpots(date string, spots int) error {
	d, err := utils.ParseDate(date)
	if err != nil {
		return err
	}
	f.slot = model.Availability{TourID: f.tour.ID, Date: d, Time: "10:00", MaxSpots: spots, SpotsLeft: spots}
	return f.db.Create(&f.slot).Error
}

func (f *bookingFeature) aDiscountCodeWorth(category, code string, value int) error {
	return f.db.Create(&model.DiscountCode{Code: code, Category: category, Value: int64(value), Active: true}).Error
}

func (f *bookingFeature) theDiscountCodeHasExpired(code string) error {
	return f.db.Model(&model.DiscountCode{}).Where("code = ?", code).
		Update("valid_until", fixedNow.Add(-time.Hour)).Error
}

func (f *bookingFeature) autoCloseDayIsEnabled() error {
	f.settings.AutoCloseDay = true
	return nil
}

func (f *bookingFeature) iBookParticipants(n int) error {
	return f.iBookParticipantsWithCode(n, "")
}

func (f *bookingFeature) iBookParticipantsWithCode(n int, code string) error {
	in := bookingInput(f.tour, f.slot, n)
	in.DiscountCode = code
	f.booking, f.err = f.svc.CreateBooking(context.Background(), in, f.settings)
	return nil
}

func (f *bookingFeature) iValidateCodeForParticipants(code string, n int) error {
	dc, err := FindDiscountCode(f.db, model.NormalizeCode(code))
	if err != nil {
		return err
	}
	f.result = helper.EvaluateDiscount(dc, f.tour, n, fixedNow)
	return nil
}

func (f *bookingFeature) theBookingSucceedsWithTotal(total int) error {
	if f.err != nil {
		return fmt.Errorf("expected booking, got error: %v", f.err)
	}
	if f.booking.TotalAmount != int64(total) {
		return fmt.Errorf("expected total %d, got %d", total, f.booking.TotalAmount)
	}
	return nil
}

func (f *bookingFeature) theDiscountAppliedIs(amount int) error {
	if got := f.booking.AdditionalInfo.Data().DiscountAmount; got != int64(amount) {
		return fmt.Errorf("expected discount %d, got %d", amount, got)
	}
	return nil
}

func (f *bookingFeature) theBookingReferenceMatches(pattern string) error {
	if !regexp.MustCompile(pattern).MatchString(f.booking.BookingReference) {
		return fmt.Errorf("reference %q does not match %s", f.booking.BookingReference, pattern)
	}
	return nil
}

func (f *bookingFeature) spotsAreLeft(n int) error {
	var slot model.Availability
	if err := f.db.First(&slot, f.slot.ID).Error; err != nil {
		return err
	}
	if slot.SpotsLeft != n {
		return fmt.Errorf("expected %d spots left, got %d", n, slot.SpotsLeft)
	}
	return nil
}

func (f *bookingFeature) closedCount(date string) (int64, error) {
	d, err := utils.ParseDate(date)
	if err != nil {
		return 0, err
	}
	var n int64
	err = f.db.Model(&model.ClosedDay{}).Where("date = ?", d).Count(&n).Error
	return n, err
}

func (f *bookingFeature) theDateIsClosed(date string) error {
	n, err := f.closedCount(date)
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("expected %s to be closed once, found %d rows", date, n)
	}
	return nil
}

func (f *bookingFeature) theDateIsOpen(date string) error {
	n, err := f.closedCount(date)
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("expected %s to be open", date)
	}
	return nil
}

func (f *bookingFeature) theBookingIsRejectedAsAConflict() error {
	if !utils.IsKind(f.err, utils.KindConflict) {
		return fmt.Errorf("expected conflict, got %v", f.err)
	}
	return nil
}

func (f *bookingFeature) theCodeIsInvalidWithReason(reason string) error {
	if f.result.Valid {
		return fmt.Errorf("expected invalid code")
	}
	if f.result.Reason != reason {
		return fmt.Errorf("expected reason %s, got %s", reason, f.result.Reason)
	}
	return nil
}

func TestBookingFeatures(t *testing.T) {
	f := &bookingFeature{t: t}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
				f.reset()
				return ctx, nil
			})

			ctx.Step(`^a "([^"]*)" tour priced at (\d+)$`, f.aTourPricedAt)
			ctx.Step(`^an availability on "([^"]*)" with (\d+) spots$`, f.anAvailabilityWithSpots)
			ctx.Step(`^a "([^"]*)" discount code "([^"]*)" worth (\d+)$`, f.aDiscountCodeWorth)
			ctx.Step(`^the discount code "([^"]*)" has expired$`, f.theDiscountCodeHasExpired)
			ctx.Step(`^auto close day is enabled$`, f.autoCloseDayIsEnabled)

			ctx.Step(`^I book (\d+) participants$`, f.iBookParticipants)
			ctx.Step(`^I book (\d+) participants with code "([^"]*)"$`, f.iBookParticipantsWithCode)
			ctx.Step(`^I validate code "([^"]*)" for (\d+) participants$`, f.iValidateCodeForParticipants)

			ctx.Step(`^the booking succeeds with total (\d+)$`, f.theBookingSucceedsWithTotal)
			ctx.Step(`^the discount applied is (\d+)$`, f.theDiscountAppliedIs)
			ctx.Step(`^the booking reference matches "([^"]*)"$`, f.theBookingReferenceMatches)
			ctx.Step(`^(\d+) spots are left$`, f.spotsAreLeft)
			ctx.Step(`^the date "([^"]*)" is closed$`, f.theDateIsClosed)
			ctx.Step(`^the date "([^"]*)" is open$`, f.theDateIsOpen)
			ctx.Step(`^the booking is rejected as a conflict$`, f.theBookingIsRejectedAsAConflict)
			ctx.Step(`^the code is invalid with reason "([^"]*)"$`, f.theCodeIsInvalidWithReason)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
