package domain

import "time"

type Product struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	Description        string    `json:"description,omitempty"`
	Image              string    `json:"image,omitempty"`
	PriceCents         int64     `json:"priceCents"`
	OriginalPriceCents *int64    `json:"originalPriceCents,omitempty"`
	Rating             float64   `json:"rating"`
	Reviews            int       `json:"reviews"`
	Stock              int       `json:"stock"`
	IsFeatured         bool      `json:"isFeatured"`
	CreatedBy          string    `json:"createdBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
