package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

// Publisher delivers a serialized event to connected admin clients.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// Event is the frame sent to admin clients.
type Event struct {
	Type         string             `json:"type"`
	Notification model.Notification `json:"notification"`
}

type Fanout struct {
	db        *gorm.DB
	publisher Publisher
	pusher    Pusher
}

// NewFanout builds a fan-out. pusher may be nil.
func NewFanout(db *gorm.DB, publisher Publisher, pusher Pusher) *Fanout {
	return &Fanout{db: db, publisher: publisher, pusher: pusher}
}

// Notify persists n and then pushes it to live clients and devices. Only the
// persistence error is returned.
func (f *Fanout) Notify(ctx context.Context, n *model.Notification) error {
	if err := f.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	payload, err := json.Marshal(Event{Type: "notification", Notification: *n})
	if err != nil {
		logger.Log.Error("marshal notification event", zap.Error(err))
		return nil
	}
	if err := f.publisher.Publish(ctx, payload); err != nil {
		logger.Log.Warn("live notification publish failed", zap.Uint("id", n.ID), zap.Error(err))
	}
	if f.pusher != nil {
		if err := f.pusher.Push(ctx, *n); err != nil {
			logger.Log.Warn("device push failed", zap.Uint("id", n.ID), zap.Error(err))
		}
	}
	return nil
}
