package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFCunha10/lisbonlovesme-sub000/database/dbtest"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

func TestSettingsStore(t *testing.T) {
	db := dbtest.New(t)
	store := NewSettingsStore(db)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, got.AutoCloseDay)
	assert.Equal(t, int64(1), countRows(t, db, &model.AdminSetting{}))

	updated, err := store.Update(context.Background(), model.UpdateSettingsInput{AutoCloseDay: utils.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.AutoCloseDay)

	// served from cache even if the row changes underneath
	require.NoError(t, db.Model(&model.AdminSetting{}).Where("id = ?", model.SettingsRowID).Update("auto_close_day", false).Error)
	got, err = store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.AutoCloseDay)

	store.Invalidate()
	got, err = store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, got.AutoCloseDay)
	assert.Equal(t, int64(1), countRows(t, db, &model.AdminSetting{}))
}
