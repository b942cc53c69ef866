package models

import "time"

// Order is one purchased line item. Name and price are copied from the
// product at purchase time so the row stays a truthful record even if the
// product is later renamed, re-priced or deleted. Orders are never updated
// or deleted after checkout.
type Order struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef    string    `gorm:"uniqueIndex" json:"order_ref"`
	AmountPaid  float64   `json:"amount_paid"`
	ProductName string    `json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	OrderDate   time.Time `json:"order_date"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
