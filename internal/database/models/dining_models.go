package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderOpen    OrderStatus = "ABIERTO"   // taking items
	OrderWaiting OrderStatus = "EN_ESPERA" // sent to kitchen
	OrderReady   OrderStatus = "PREPARADO" // ready to serve
	OrderClosed  OrderStatus = "CERRADO"   // paid, terminal
	OrderVoided  OrderStatus = "ANULADO"   // terminal
)

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderClosed || s == OrderVoided
}

type ItemStatus string

const (
	ItemPending   ItemStatus = "PENDIENTE"
	ItemInKitchen ItemStatus = "COCINA"
	ItemServed    ItemStatus = "SERVIDO"
	ItemCancelled ItemStatus = "CANCELADO"
)

type DiningTable struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Number    int    `gorm:"uniqueIndex;not null"`
	Capacity  int    `gorm:"not null"`
	Location  string `gorm:"type:varchar(100)"`
	Occupied  bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID         uint  `gorm:"primaryKey;autoIncrement"`
	TableID    *uint // nil for takeout
	EmployeeID uint  `gorm:"not null"`
	PlacedAt   time.Time
	Note       *string         `gorm:"type:text"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status     OrderStatus     `gorm:"type:varchar(15);not null;default:'ABIERTO';index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Table    *DiningTable `gorm:"foreignKey:TableID;constraint:OnDelete:RESTRICT"`
	Employee *Employee    `gorm:"foreignKey:EmployeeID;constraint:OnDelete:RESTRICT"`
	Items    []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   uint            `gorm:"index;not null"`
	ProductID uint            `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Note      *string         `gorm:"type:text"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status    ItemStatus      `gorm:"type:varchar(10);not null;default:'PENDIENTE'"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}
