package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order archives a completed checkout. Line items are stored as a JSON
// snapshot of the cart at purchase time, mirroring what the buyer saw.
type Order struct {
	ID          uuid.UUID       `gorm:"column:id;type:text;primaryKey" json:"id"`
	OrderNumber string          `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Email       string          `gorm:"column:email;not null" json:"email"`
	Phone       string          `gorm:"column:phone;not null" json:"phone"`
	MpesaPhone  string          `gorm:"column:mpesa_phone;not null" json:"mpesa_phone"`
	Total       decimal.Decimal `gorm:"column:total;type:text;not null" json:"total"`
	Items       OrderItems      `gorm:"column:items;serializer:json;not null" json:"items"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// OrderItem is one archived cart line.
type OrderItem struct {
	ProductID int             `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Specs     string          `json:"specs"`
}

type OrderItems []OrderItem
