package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

var errSpotsOutOfRange = errors.New("spotsLeft must be between 0 and maxSpots")

// UpdateAvailability applies an admin edit to slot id. The row is locked for
// the read, and the write only lands if spots_left still holds the value read,
// so a booking committed in between is never overwritten.
func UpdateAvailability(ctx context.Context, db *gorm.DB, id uint, input model.UpdateAvailabilityInput) (*model.Availability, error) {
	var slot model.Availability
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, id).Error; err != nil {
			return utils.NotFoundOr(err, "Availability not found")
		}
		read := slot.SpotsLeft

		if input.Date != nil {
			date, err := utils.ParseDate(*input.Date)
			if err != nil {
				return utils.Validation("Invalid date", err)
			}
			slot.Date = date
		}
		if input.Time != nil {
			slot.Time = *input.Time
		}
		if input.MaxSpots != nil {
			// Keep the booked count when only the capacity changes.
			booked := slot.MaxSpots - slot.SpotsLeft
			slot.MaxSpots = *input.MaxSpots
			slot.SpotsLeft = max(slot.MaxSpots-booked, 0)
		}
		if input.SpotsLeft != nil {
			slot.SpotsLeft = *input.SpotsLeft
		}
		if slot.SpotsLeft < 0 || slot.SpotsLeft > slot.MaxSpots {
			return utils.Validation("Validation failed", errSpotsOutOfRange)
		}

		res := tx.Model(&model.Availability{}).
			Where("id = ? AND spots_left = ?", slot.ID, read).
			Updates(map[string]any{
				"date":       slot.Date,
				"time":       slot.Time,
				"max_spots":  slot.MaxSpots,
				"spots_left": slot.SpotsLeft,
			})
		if res.Error != nil {
			return fmt.Errorf("update availability: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Availability was booked while editing, reload and retry", nil)
		}
		return tx.First(&slot, slot.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListAvailable returns bookable slots matching f. Slots on closed dates are
// excluded in the same query.
func ListAvailable(ctx context.Context, db *gorm.DB, f model.AvailabilityFilter) ([]model.Availability, error) {
	query := db.WithContext(ctx).Model(&model.Availability{}).
		Where("date NOT IN (?)", db.Model(&model.ClosedDay{}).Select("date"))
	query, err := applyAvailabilityFilter(query, f)
	if err != nil {
		return nil, err
	}
	var rows []model.Availability
	if err := query.Order("date ASC, time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	return rows, nil
}

// ListAll returns every slot matching f, closed or not.
func ListAll(ctx context.Context, db *gorm.DB, f model.AvailabilityFilter) ([]model.Availability, error) {
	query, err := applyAvailabilityFilter(db.WithContext(ctx).Model(&model.Availability{}), f)
	if err != nil {
		return nil, err
	}
	var rows []model.Availability
	if err := query.Order("date ASC, time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	return rows, nil
}

func applyAvailabilityFilter(query *gorm.DB, f model.AvailabilityFilter) (*gorm.DB, error) {
	if f.TourID != 0 {
		query = query.Where("tour_id = ?", f.TourID)
	}
	for _, c := range []struct {
		value string
		cond  string
	}{
		{f.Date, "date = ?"},
		{f.From, "date >= ?"},
		{f.To, "date <= ?"},
	} {
		if c.value == "" {
			continue
		}
		d, err := utils.ParseDate(c.value)
		if err != nil {
			return nil, utils.Validation(err.Error(), nil)
		}
		query = query.Where(c.cond, d)
	}
	return query, nil
}

// Calendar summarises one month for the admin calendar: slots, bookings and
// closures per date. Dates with none of those are omitted.
func Calendar(ctx context.Context, db *gorm.DB, year int, month time.Month, tourID uint) ([]model.CalendarDay, error) {
	if month < time.January || month > time.December {
		return nil, utils.Validation("invalid month", nil)
	}
	first := utils.Date{Time: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
	last := utils.Date{Time: first.AddDate(0, 1, -1)}

	slots, err := ListAll(ctx, db, model.AvailabilityFilter{
		TourID: tourID,
		From:   first.String(),
		To:     last.String(),
	})
	if err != nil {
		return nil, err
	}

	var closed []model.ClosedDay
	if err := db.WithContext(ctx).Where("date >= ? AND date <= ?", first, last).Find(&closed).Error; err != nil {
		return nil, fmt.Errorf("list closed days: %w", err)
	}

	type bookingCount struct {
		AvailabilityID uint
		Bookings       int64
		Participants   int64
	}
	var counts []bookingCount
	ids := make([]uint, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	if len(ids) > 0 {
		err := db.WithContext(ctx).Model(&model.Booking{}).
			Select("availability_id, COUNT(*) AS bookings, COALESCE(SUM(number_of_participants), 0) AS participants").
			Where("availability_id IN ? AND payment_status IN ?", ids, []string{model.PaymentRequested, model.PaymentConfirmed}).
			Group("availability_id").
			Scan(&counts).Error
		if err != nil {
			return nil, fmt.Errorf("count bookings: %w", err)
		}
	}
	bySlot := make(map[uint]bookingCount, len(counts))
	for _, c := range counts {
		bySlot[c.AvailabilityID] = c
	}

	days := make(map[string]*model.CalendarDay)
	day := func(date string) *model.CalendarDay {
		if d, ok := days[date]; ok {
			return d
		}
		d := &model.CalendarDay{Date: date, Slots: []model.Availability{}}
		days[date] = d
		return d
	}
	for _, s := range slots {
		d := day(s.Date.String())
		d.Slots = append(d.Slots, s)
		c := bySlot[s.ID]
		d.BookingCount += c.Bookings
		d.ParticipantSum += c.Participants
	}
	for _, c := range closed {
		d := day(c.Date.String())
		d.Closed = true
		d.ClosedReason = c.Reason
	}

	out := make([]model.CalendarDay, 0, len(days))
	for date := first; !date.After(last.Time); date = (utils.Date{Time: date.AddDate(0, 0, 1)}) {
		if d, ok := days[date.String()]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}
