package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

// Pusher delivers a notification to registered mobile devices.
type Pusher interface {
	Push(ctx context.Context, n model.Notification) error
}

type expoMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Sound string         `json:"sound"`
	Data  map[string]any `json:"data,omitempty"`
}

// ExpoPusher sends to every registered device through the Expo push API.
type ExpoPusher struct {
	db      *gorm.DB
	url     string
	timeout time.Duration
}

func NewExpoPusher(db *gorm.DB, url string) *ExpoPusher {
	return &ExpoPusher{db: db, url: url, timeout: 10 * time.Second}
}

func (p *ExpoPusher) Push(ctx context.Context, n model.Notification) error {
	var tokens []string
	if err := p.db.WithContext(ctx).Model(&model.Device{}).Pluck("token", &tokens).Error; err != nil {
		return fmt.Errorf("load devices: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	messages := make([]expoMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, expoMessage{
			To:    token,
			Title: n.Title,
			Body:  n.Message,
			Sound: "default",
			Data:  map[string]any{"type": n.Type, "notificationId": n.ID},
		})
	}

	agent := fiber.Post(p.url).JSON(messages).Timeout(p.timeout)
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("expo push: %w", errs[0])
	}
	if code >= fiber.StatusBadRequest {
		return fmt.Errorf("expo push: status %d: %s", code, body)
	}
	return nil
}
