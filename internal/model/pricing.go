package model

import "time"

// Pricing maps (shop, paper size, color type) to a per-copy price in centavos.
// It is read-only relative to the order flow and used for display totals only.
type Pricing struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Shop       Shop      `gorm:"uniqueIndex:idx_pricing_key;size:8;not null" json:"shop"`
	PaperSize  string    `gorm:"uniqueIndex:idx_pricing_key;size:32;not null" json:"paper_size"`
	ColorType  ColorType `gorm:"uniqueIndex:idx_pricing_key;size:24;not null" json:"color_type"`
	PriceCents int64     `gorm:"not null" json:"price_cents"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
