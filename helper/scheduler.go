package helper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/outbox"
)

// OutboxRetention is how long delivered outbox messages are kept.
const OutboxRetention = 7 * 24 * time.Hour

var (
	outboxScheduler gocron.Scheduler
	housekeeping    *cron.Cron
)

// StartOutboxScheduler drains the outbox every interval. Runs never overlap.
func StartOutboxScheduler(ctx context.Context, w *outbox.Worker, interval time.Duration) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create outbox scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			sent, err := w.Drain(ctx)
			if err != nil {
				logger.Log.Error("outbox drain failed", zap.Error(err))
				return
			}
			if sent > 0 {
				logger.Log.Info("outbox drained", zap.Int("sent", sent))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule outbox drain: %w", err)
	}

	outboxScheduler = s
	s.Start()
	logger.Log.Info("outbox scheduler started", zap.Duration("interval", interval))
	return nil
}

// StartHousekeeping runs the nightly cleanup at 03:00.
func StartHousekeeping(db *gorm.DB, w *outbox.Worker) error {
	housekeeping = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := housekeeping.AddFunc("0 3 * * *", func() {
		ctx := context.Background()
		if n, err := w.Purge(ctx, OutboxRetention); err != nil {
			logger.Log.Error("outbox purge failed", zap.Error(err))
		} else if n > 0 {
			logger.Log.Info("purged delivered outbox messages", zap.Int64("count", n))
		}
		if n, err := DeactivateExpiredCodes(db.WithContext(ctx), time.Now()); err != nil {
			logger.Log.Error("deactivating expired discount codes failed", zap.Error(err))
		} else if n > 0 {
			logger.Log.Info("deactivated expired discount codes", zap.Int64("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule housekeeping: %w", err)
	}

	housekeeping.Start()
	logger.Log.Info("housekeeping scheduler started (03:00)")
	return nil
}

// DeactivateExpiredCodes switches off active codes whose validity ended
// before now.
func DeactivateExpiredCodes(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&model.DiscountCode{}).
		Where("active = ? AND valid_until IS NOT NULL AND valid_until <= ?", true, now).
		Update("active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("deactivate expired codes: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// StopSchedulers stops whichever schedulers were started.
func StopSchedulers() {
	if outboxScheduler != nil {
		if err := outboxScheduler.Shutdown(); err != nil {
			logger.Log.Warn("outbox scheduler shutdown", zap.Error(err))
		}
	}
	if housekeeping != nil {
		<-housekeeping.Stop().Done()
	}
}
