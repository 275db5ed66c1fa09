package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LFCunha10/lisbonlovesme-sub000/database/dbtest"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

type ping struct {
	N int `json:"n"`
}

func newWorker(t *testing.T, opts Options) (*Worker, *gorm.DB) {
	db := dbtest.New(t)
	return NewWorker(db, opts), db
}

func advance(w *Worker, d time.Duration) {
	w.now = func() time.Time { return time.Now().Add(d) }
}

func load(t *testing.T, db *gorm.DB) []model.OutboxMessage {
	var msgs []model.OutboxMessage
	require.NoError(t, db.Order("id").Find(&msgs).Error)
	return msgs
}

func TestDrainDeliversInOrder(t *testing.T) {
	w, db := newWorker(t, Options{})
	var got []int
	w.Register("ping", func(ctx context.Context, payload []byte) error {
		var p ping
		require.NoError(t, json.Unmarshal(payload, &p))
		got = append(got, p.N)
		return nil
	})

	require.NoError(t, Enqueue(db, "ping", ping{N: 1}))
	require.NoError(t, Enqueue(db, "ping", ping{N: 2}))
	advance(w, time.Second)

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []int{1, 2}, got)

	for _, m := range load(t, db) {
		assert.Equal(t, model.OutboxSent, m.Status)
		assert.Equal(t, 1, m.Attempts)
		assert.NotNil(t, m.SentAt)
	}

	sent, err = w.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent, "sent messages are not redelivered")
}

func TestDrainRetriesWithBackoff(t *testing.T) {
	w, db := newWorker(t, Options{BaseDelay: time.Minute})
	fail := true
	calls := 0
	w.Register("ping", func(ctx context.Context, payload []byte) error {
		calls++
		if fail {
			return errors.New("smtp down")
		}
		return nil
	})
	require.NoError(t, Enqueue(db, "ping", ping{N: 1}))
	advance(w, time.Second)

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	msgs := load(t, db)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.OutboxPending, msgs[0].Status)
	assert.Equal(t, 1, msgs[0].Attempts)
	assert.Equal(t, "smtp down", msgs[0].LastError)

	// not due yet
	sent, err = w.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 1, calls)

	fail = false
	advance(w, 2*time.Hour)
	sent, err = w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, calls)
	assert.Equal(t, model.OutboxSent, load(t, db)[0].Status)
}

func TestDrainGivesUpAfterMaxAttempts(t *testing.T) {
	w, db := newWorker(t, Options{MaxAttempts: 2, BaseDelay: time.Minute})
	w.Register("ping", func(ctx context.Context, payload []byte) error {
		return errors.New("always")
	})
	require.NoError(t, Enqueue(db, "ping", ping{}))

	advance(w, time.Second)
	_, err := w.Drain(context.Background())
	require.NoError(t, err)
	advance(w, 3*time.Hour)
	_, err = w.Drain(context.Background())
	require.NoError(t, err)

	msgs := load(t, db)
	assert.Equal(t, model.OutboxFailed, msgs[0].Status)
	assert.Equal(t, 2, msgs[0].Attempts)
}

func TestDrainFailsUnknownKind(t *testing.T) {
	w, db := newWorker(t, Options{})
	require.NoError(t, Enqueue(db, "mystery", ping{}))
	advance(w, time.Second)

	_, err := w.Drain(context.Background())
	require.NoError(t, err)

	msgs := load(t, db)
	assert.Equal(t, model.OutboxFailed, msgs[0].Status)
	assert.Equal(t, ErrNoHandler.Error(), msgs[0].LastError)
}

func TestBackoff(t *testing.T) {
	w := NewWorker(nil, Options{BaseDelay: 30 * time.Second, MaxDelay: 5 * time.Minute})
	assert.Equal(t, 30*time.Second, w.Backoff(1))
	assert.Equal(t, time.Minute, w.Backoff(2))
	assert.Equal(t, 2*time.Minute, w.Backoff(3))
	assert.Equal(t, 4*time.Minute, w.Backoff(4))
	assert.Equal(t, 5*time.Minute, w.Backoff(5))
	assert.Equal(t, 5*time.Minute, w.Backoff(30))
}

func TestPurgeRemovesOldSentMessages(t *testing.T) {
	w, db := newWorker(t, Options{})
	w.Register("ping", func(ctx context.Context, payload []byte) error { return nil })
	require.NoError(t, Enqueue(db, "ping", ping{}))
	require.NoError(t, Enqueue(db, "other", ping{}))
	advance(w, time.Second)
	_, err := w.Drain(context.Background())
	require.NoError(t, err)

	advance(w, 8*24*time.Hour)
	n, err := w.Purge(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	msgs := load(t, db)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.OutboxFailed, msgs[0].Status)
}
