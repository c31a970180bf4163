package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Products []Product `gorm:"foreignKey:CategoryID"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Available   bool            `gorm:"not null;default:false"`
	CategoryID  uint            `gorm:"not null"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}
