package model

import "gorm.io/datatypes"

const (
	PricePerPerson = "per_person"
	PricePerGroup  = "per_group"
)

// Tour prices are integer minor currency units (cents).
type Tour struct {
	DTO
	Slug         string                            `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Name         datatypes.JSONType[Translations] `json:"name"`
	Description  datatypes.JSONType[Translations] `json:"description"`
	Duration     datatypes.JSONType[Translations] `json:"duration"`
	Difficulty   datatypes.JSONType[Translations] `json:"difficulty"`
	Price        int64                             `gorm:"not null" json:"price"`
	PriceType    string                            `gorm:"size:20;not null" json:"priceType"`
	MaxGroupSize int                               `gorm:"not null" json:"maxGroupSize"`
	Active       bool                              `gorm:"not null" json:"active"`
	ImageURL     string                            `json:"imageUrl"`
}

func (t Tour) IsPerGroup() bool {
	return t.PriceType == PricePerGroup
}

func (t Tour) DisplayName(lang string) string {
	return t.Name.Data().In(lang)
}

type CreateTourInput struct {
	Name         Translations `json:"name" validate:"required,min=1"`
	Description  Translations `json:"description"`
	Duration     Translations `json:"duration"`
	Difficulty   Translations `json:"difficulty"`
	Price        int64        `json:"price" validate:"min=0"`
	PriceType    string       `json:"priceType" validate:"required,oneof=per_person per_group"`
	MaxGroupSize int          `json:"maxGroupSize" validate:"required,min=1"`
	Active       *bool        `json:"active"`
	ImageURL     string       `json:"imageUrl" validate:"omitempty,max=500"`
}

type UpdateTourInput struct {
	Name         Translations `json:"name" validate:"omitempty,min=1"`
	Description  Translations `json:"description"`
	Duration     Translations `json:"duration"`
	Difficulty   Translations `json:"difficulty"`
	Price        *int64       `json:"price" validate:"omitempty,min=0"`
	PriceType    *string      `json:"priceType" validate:"omitempty,oneof=per_person per_group"`
	MaxGroupSize *int         `json:"maxGroupSize" validate:"omitempty,min=1"`
	Active       *bool        `json:"active"`
	ImageURL     *string      `json:"imageUrl" validate:"omitempty,max=500"`
}

type TourFilter struct {
	Pagination
	Active *bool `query:"active"`
}
