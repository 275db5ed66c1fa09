package handler

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFCunha10/lisbonlovesme-sub000/database/dbtest"
	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/storage"
	"github.com/LFCunha10/lisbonlovesme-sub000/validate"
)

func multipartFile(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	db := dbtest.New(t)
	dir := t.TempDir()
	files, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	Init(Deps{Files: files})

	app := fiber.New()
	app.Post("/documents", UploadDocument)
	app.Delete("/documents/:documentId", validate.GetById("documentId"), DeleteDocument)

	body, contentType := multipartFile(t, "itinerary.pdf", "application/pdf", []byte("%PDF-1.4 itinerary"))
	req := httptest.NewRequest(fiber.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var doc model.Document
	require.NoError(t, db.First(&doc).Error)
	assert.Equal(t, "itinerary.pdf", doc.Name)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.FileExists(t, filepath.Join(dir, doc.StorageKey))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodDelete, "/documents/"+strconv.FormatUint(uint64(doc.ID), 10), nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, err = os.Stat(filepath.Join(dir, doc.StorageKey))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadImageRejectsWrongType(t *testing.T) {
	dbtest.New(t)
	files, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	Init(Deps{Files: files})

	app := fiber.New()
	app.Post("/images", UploadImage)

	body, contentType := multipartFile(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(fiber.MethodPost, "/images", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/images", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadImageChecksContentNotHeader(t *testing.T) {
	dbtest.New(t)
	dir := t.TempDir()
	files, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	Init(Deps{Files: files})

	app := fiber.New()
	app.Post("/images", UploadImage)

	body, contentType := multipartFile(t, "photo.png", "image/png", []byte("<?php echo 'hi'; ?>"))
	req := httptest.NewRequest(fiber.MethodPost, "/images", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
