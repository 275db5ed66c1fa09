package model

import (
	"time"

	"gorm.io/datatypes"
)

type Testimonial struct {
	DTO
	TourID     uint   `gorm:"not null;index" json:"tourId"`
	Tour       *Tour  `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"tour,omitempty"`
	AuthorName string `gorm:"size:150;not null" json:"authorName"`
	Rating     int    `gorm:"not null" json:"rating"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Approved   bool   `gorm:"not null;index" json:"approved"`
}

type TestimonialInput struct {
	TourID     uint   `json:"tourId" validate:"required"`
	AuthorName string `json:"authorName" validate:"required,max=150"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Text       string `json:"text" validate:"required,max=3000"`
}

type Article struct {
	DTO
	Slug        string                            `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Title       datatypes.JSONType[Translations] `json:"title"`
	Content     datatypes.JSONType[Translations] `json:"content"`
	CoverImage  string                            `json:"coverImage"`
	Published   bool                              `gorm:"not null;index" json:"published"`
	PublishedAt *time.Time                        `json:"publishedAt"`
}

type ArticleInput struct {
	Title      Translations `json:"title" validate:"required,min=1"`
	Content    Translations `json:"content"`
	CoverImage string       `json:"coverImage" validate:"omitempty,max=500"`
	Published  bool         `json:"published"`
}

type GalleryImage struct {
	DTO
	URL        string `gorm:"size:500;not null" json:"url"`
	StorageKey string `gorm:"size:500" json:"-"`
	Caption    string `gorm:"size:255" json:"caption"`
	SortOrder  int    `gorm:"not null;default:0" json:"sortOrder"`
}

type GalleryImageInput struct {
	URL        string `json:"url" validate:"required,max=500"`
	StorageKey string `json:"storageKey" validate:"omitempty,max=500"`
	Caption    string `json:"caption" validate:"omitempty,max=255"`
	SortOrder  int    `json:"sortOrder"`
}

type Document struct {
	DTO
	Name       string `gorm:"size:255;not null" json:"name"`
	URL        string `gorm:"size:500;not null" json:"url"`
	StorageKey string `gorm:"size:500" json:"-"`
	MimeType   string `gorm:"size:100" json:"mimeType"`
	Size       int64  `json:"size"`
}
