package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/metrics"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

// Message kinds.
const (
	KindBookingRequestedEmail = "email.booking_requested"
	KindAdminNewBookingEmail  = "email.admin_new_booking"
	KindBookingConfirmedEmail = "email.booking_confirmed"
	KindBookingCancelledEmail = "email.booking_cancelled"
	KindBookingNotification   = "notification.booking"
)

var ErrNoHandler = errors.New("no handler registered for kind")

// Handler delivers one message payload.
type Handler func(ctx context.Context, payload []byte) error

// Enqueue records a message on tx. It becomes visible to the worker when tx
// commits.
func Enqueue(tx *gorm.DB, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	msg := model.OutboxMessage{
		Kind:          kind,
		Payload:       datatypes.JSON(data),
		Status:        model.OutboxPending,
		NextAttemptAt: time.Now(),
	}
	if err := tx.Create(&msg).Error; err != nil {
		return fmt.Errorf("enqueue %s: %w", kind, err)
	}
	return nil
}

type Options struct {
	MaxAttempts int
	BatchSize   int
	RatePerSec  float64
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Lease is how long a claimed message stays invisible to other workers
	// while it is being delivered.
	Lease time.Duration
}

func (o *Options) setDefaults() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 8
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 30 * time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = time.Hour
	}
	if o.Lease <= 0 {
		o.Lease = 5 * time.Minute
	}
}

// Worker delivers pending outbox messages with retry and exponential backoff.
type Worker struct {
	db       *gorm.DB
	opts     Options
	limiter  *rate.Limiter
	handlers map[string]Handler
	now      func() time.Time

	mu   sync.Mutex
	kick chan struct{}
}

func NewWorker(db *gorm.DB, opts Options) *Worker {
	opts.setDefaults()
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	return &Worker{
		db:       db,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
		handlers: make(map[string]Handler),
		now:      time.Now,
		kick:     make(chan struct{}, 1),
	}
}

// Register sets the handler for kind. Not safe to call once Run has started.
func (w *Worker) Register(kind string, h Handler) {
	w.handlers[kind] = h
}

// Kick asks a running worker to drain as soon as possible.
func (w *Worker) Kick() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Run drains whenever Kick is called, until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.kick:
			if _, err := w.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

// Drain delivers every message that is due and returns how many were sent.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var due []model.OutboxMessage
	if err := w.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", model.OutboxPending, w.now()).
		Order("id").
		Limit(w.opts.BatchSize).
		Find(&due).Error; err != nil {
		return 0, fmt.Errorf("load due outbox messages: %w", err)
	}

	sent := 0
	for i := range due {
		if err := w.limiter.Wait(ctx); err != nil {
			return sent, err
		}
		ok, err := w.deliver(ctx, &due[i])
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// deliver claims msg, runs its handler and records the outcome. The returned
// error is reserved for storage failures; handler failures only reschedule.
func (w *Worker) deliver(ctx context.Context, msg *model.OutboxMessage) (bool, error) {
	now := w.now()
	claim := w.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ? AND status = ? AND attempts = ?", msg.ID, model.OutboxPending, msg.Attempts).
		Updates(map[string]any{
			"attempts":        msg.Attempts + 1,
			"next_attempt_at": now.Add(w.opts.Lease),
		})
	if claim.Error != nil {
		return false, fmt.Errorf("claim outbox message %d: %w", msg.ID, claim.Error)
	}
	if claim.RowsAffected == 0 {
		// claimed by another worker
		return false, nil
	}
	msg.Attempts++

	handler, ok := w.handlers[msg.Kind]
	var handlerErr error
	if !ok {
		handlerErr = ErrNoHandler
	} else {
		handlerErr = handler(ctx, msg.Payload)
	}

	if handlerErr == nil {
		sentAt := w.now()
		metrics.RecordOutbox(msg.Kind, model.OutboxSent)
		return true, w.db.WithContext(ctx).Model(&model.OutboxMessage{}).Where("id = ?", msg.ID).
			Updates(map[string]any{"status": model.OutboxSent, "sent_at": sentAt, "last_error": ""}).Error
	}

	updates := map[string]any{"last_error": handlerErr.Error()}
	if !ok || msg.Attempts >= w.opts.MaxAttempts {
		updates["status"] = model.OutboxFailed
		metrics.RecordOutbox(msg.Kind, model.OutboxFailed)
		logger.Log.Error("outbox message failed permanently",
			zap.Uint("id", msg.ID), zap.String("kind", msg.Kind), zap.Int("attempts", msg.Attempts), zap.Error(handlerErr))
	} else {
		updates["next_attempt_at"] = w.now().Add(w.Backoff(msg.Attempts))
		metrics.RecordOutbox(msg.Kind, "retry")
		logger.Log.Warn("outbox delivery failed, will retry",
			zap.Uint("id", msg.ID), zap.String("kind", msg.Kind), zap.Int("attempts", msg.Attempts), zap.Error(handlerErr))
	}
	return false, w.db.WithContext(ctx).Model(&model.OutboxMessage{}).Where("id = ?", msg.ID).Updates(updates).Error
}

// Backoff returns the delay before retry number attempts+1.
func (w *Worker) Backoff(attempts int) time.Duration {
	d := w.opts.BaseDelay
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= w.opts.MaxDelay {
			return w.opts.MaxDelay
		}
	}
	return d
}

// Purge deletes sent messages older than age.
func (w *Worker) Purge(ctx context.Context, age time.Duration) (int64, error) {
	res := w.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", model.OutboxSent, w.now().Add(-age)).
		Delete(&model.OutboxMessage{})
	return res.RowsAffected, res.Error
}
