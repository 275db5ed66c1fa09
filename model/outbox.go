package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxMessage is a side effect recorded in the same transaction as the
// state change that caused it and delivered later by the outbox worker.
type OutboxMessage struct {
	DTO
	Kind          string         `gorm:"size:50;not null;index" json:"kind"`
	Payload       datatypes.JSON `json:"payload"`
	Status        string         `gorm:"size:20;not null;index:idx_outbox_due" json:"status"`
	Attempts      int            `gorm:"not null" json:"attempts"`
	NextAttemptAt time.Time      `gorm:"not null;index:idx_outbox_due" json:"nextAttemptAt"`
	LastError     string         `gorm:"type:text" json:"lastError,omitempty"`
	SentAt        *time.Time     `json:"sentAt,omitempty"`
}
