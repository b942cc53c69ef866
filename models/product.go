package models

import "time"

type Product struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Stock           int       `json:"stock"` // never negative; checkout caps decrements
	ManufactureDate time.Time `json:"manufacture_date"`
	ExpiryDate      time.Time `json:"expiry_date"`
	RatePerUnit     float64   `json:"rate_per_unit"`
	Unit            string    `gorm:"size:20" json:"unit"` // e.g. "Rs/Kg", "Rs/Litre"
	CategoryID      *uint     `json:"category_id"`
	Category        *Category `json:"category,omitempty"`
}
