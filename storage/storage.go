package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/LFCunha10/lisbonlovesme-sub000/config"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

// Kind describes what an upload slot accepts.
type Kind struct {
	Name    string
	MaxSize int64
	// Allowed maps MIME type to the stored file extension.
	Allowed map[string]string
}

var Image = Kind{
	Name:    "image",
	MaxSize: 5 << 20,
	Allowed: map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	},
}

var Document = Kind{
	Name:    "document",
	MaxSize: 20 << 20,
	Allowed: map[string]string{
		"application/pdf":    ".pdf",
		"application/msword": ".doc",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
		"application/vnd.ms-excel": ".xls",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
		"text/plain": ".txt",
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	},
}

// Check validates size and content type against kind and returns the
// extension to store the file under.
func (k Kind) Check(size int64, contentType string) (string, error) {
	if size <= 0 {
		return "", utils.Validation("file is empty", nil)
	}
	if size > k.MaxSize {
		return "", utils.Validation(fmt.Sprintf("%s exceeds the %dMB limit", k.Name, k.MaxSize>>20), nil)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", utils.Validation("missing or invalid content type", nil)
	}
	ext, ok := k.Allowed[strings.ToLower(mediaType)]
	if !ok {
		return "", utils.Validation(fmt.Sprintf("%s type %s is not allowed", k.Name, mediaType), nil)
	}
	return ext, nil
}

// sniffLen matches the amount of data mimetype inspects by default.
const sniffLen = 3072

// Sniff detects r's content type from its leading bytes. The declared type
// is kept when the content is consistent with it (an .xlsx sniffs as a zip
// archive), otherwise the detected type wins. The returned reader replays the
// bytes consumed for detection.
func Sniff(r io.Reader, declared string) (io.Reader, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	body := io.MultiReader(bytes.NewReader(head), r)

	detected := mimetype.Detect(head)
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && consistent(detected, mediaType) {
		return body, strings.ToLower(mediaType), nil
	}
	mediaType, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return body, detected.String(), nil
	}
	return body, mediaType, nil
}

// consistent reports whether content detected as m may carry the declared
// type: either one is an ancestor of the other in mimetype's tree.
func consistent(m *mimetype.MIME, declared string) bool {
	for p := m; p != nil; p = p.Parent() {
		if p.Is(declared) {
			return true
		}
	}
	if d := mimetype.Lookup(declared); d != nil {
		for p := d.Parent(); p != nil; p = p.Parent() {
			if p.Is(m.String()) && p.Parent() != nil {
				return true
			}
		}
	}
	return false
}

type Object struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	MIME string `json:"mimeType"`
	Size int64  `json:"size"`
}

type Store interface {
	Save(ctx context.Context, kind Kind, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore keeps files under a directory served at BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Save(_ context.Context, kind Kind, r io.Reader, size int64, contentType string) (Object, error) {
	r, contentType, err := Sniff(r, contentType)
	if err != nil {
		return Object{}, err
	}
	ext, err := kind.Check(size, contentType)
	if err != nil {
		return Object{}, err
	}
	key := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.Dir, key))
	if err != nil {
		return Object{}, fmt.Errorf("create %s: %w", key, err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, kind.MaxSize+1))
	if err != nil {
		_ = os.Remove(f.Name())
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}
	if written > kind.MaxSize {
		_ = os.Remove(f.Name())
		return Object{}, utils.Validation(fmt.Sprintf("%s exceeds the %dMB limit", kind.Name, kind.MaxSize>>20), nil)
	}
	return Object{Key: key, URL: s.BaseURL + "/" + key, MIME: contentType, Size: written}, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	name := filepath.Base(key)
	if name != key || name == "." || name == "/" {
		return utils.Validation("invalid file key", nil)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// CloudinaryStore uploads to a Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init failed: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, kind Kind, r io.Reader, size int64, contentType string) (Object, error) {
	r, contentType, err := Sniff(r, contentType)
	if err != nil {
		return Object{}, err
	}
	if _, err := kind.Check(size, contentType); err != nil {
		return Object{}, err
	}
	resourceType := "raw"
	if strings.HasPrefix(contentType, "image/") {
		resourceType = "image"
	}
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder + "/" + kind.Name + "s",
		PublicID:     uuid.NewString(),
		ResourceType: resourceType,
	})
	if err != nil {
		return Object{}, utils.Upstream("upload failed", err)
	}
	return Object{Key: res.PublicID, URL: res.SecureURL, MIME: contentType, Size: size}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, key string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key}); err != nil {
		return utils.Upstream("delete failed", err)
	}
	return nil
}

// FromConfig returns Cloudinary storage when credentials are set and local
// disk storage otherwise.
func FromConfig(cfg *config.Settings) (Store, error) {
	if cfg.Cloudinary.Enabled() {
		return NewCloudinaryStore(cfg.Cloudinary)
	}
	return NewLocalStore(cfg.Upload.Dir, "/uploads")
}
