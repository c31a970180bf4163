package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is append-only: exactly one per order, never mutated after creation.
type Invoice struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	OrderID uint   `gorm:"uniqueIndex;not null"`
	Number  string `gorm:"type:varchar(50);uniqueIndex;not null"`

	ClientName    string  `gorm:"type:varchar(100);not null"`
	ClientCedula  *string `gorm:"type:varchar(20)"`
	ClientAddress *string `gorm:"type:varchar(200)"`
	ClientPhone   *string `gorm:"type:varchar(20)"`

	IssuedAt      time.Time
	TaxPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(50);not null"`
	PaymentRef    *string         `gorm:"type:varchar(100)"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}
