// Package billing closes orders into immutable invoices. An invoice is the
// financial closure document for exactly one order; the one-to-one is
// enforced by the unique index on order_id, not by an application check.
package billing

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"comanda-system/internal/apperr"
	"comanda-system/internal/database/models"
	"comanda-system/internal/services/tables"
)

const (
	invoicePrefix      = "FAC-"
	maxNumberAttempts  = 5
	invoiceNumberChars = 8
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	db        *gorm.DB
	newNumber func() string
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, newNumber: newInvoiceNumber}
}

type IssueInput struct {
	OrderID       uint             `json:"order_id" binding:"required"`
	TaxPercent    decimal.Decimal  `json:"tax_percent"`
	Discount      decimal.Decimal  `json:"discount"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
	PaymentRef    *string          `json:"payment_ref"`
	ClientName    string           `json:"client_name" binding:"required"`
	ClientCedula  *string          `json:"client_cedula"`
	ClientAddress *string          `json:"client_address"`
	ClientPhone   *string          `json:"client_phone"`
}

// Issue closes the order into an invoice. Every step runs inside one
// transaction: the invoice insert, the CERRADO status change and the table
// release all commit together or not at all.
func (s *Service) Issue(in IssueInput) (*models.Invoice, error) {
	if in.TaxPercent.IsNegative() {
		return nil, apperr.Validationf("tax percent must not be negative")
	}
	if in.Discount.IsNegative() {
		return nil, apperr.Validationf("discount must not be negative")
	}
	if in.ClientName == "" {
		return nil, apperr.Validationf("client name is required")
	}
	if in.PaymentMethod == "" {
		return nil, apperr.Validationf("payment method is required")
	}

	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, in.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order %d not found", in.OrderID)
			}
			return err
		}
		subtotal := order.TotalCost
		taxAmount := subtotal.Mul(in.TaxPercent).Div(hundred)
		total := subtotal.Add(taxAmount).Sub(in.Discount)

		invoice = models.Invoice{
			OrderID:       order.ID,
			ClientName:    in.ClientName,
			ClientCedula:  in.ClientCedula,
			ClientAddress: in.ClientAddress,
			ClientPhone:   in.ClientPhone,
			IssuedAt:      time.Now(),
			TaxPercent:    in.TaxPercent,
			Discount:      in.Discount,
			PaymentMethod: in.PaymentMethod,
			PaymentRef:    in.PaymentRef,
			Subtotal:      subtotal,
			Total:         total,
		}
		if err := s.insertWithNumber(tx, &invoice); err != nil {
			return err
		}

		// closing must not overwrite a terminal status committed by a
		// concurrent void; the WHERE clause makes the check and the
		// close a single statement
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status NOT IN ?", order.ID, []models.OrderStatus{models.OrderClosed, models.OrderVoided}).
			Update("status", models.OrderClosed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Order
			if err := tx.First(&current, order.ID).Error; err != nil {
				return err
			}
			return apperr.InvalidStatef("order %d is %s", order.ID, current.Status)
		}
		if order.TableID != nil {
			// takeout orders have no table; nothing to release
			return tables.Free(tx, *order.TableID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// insertWithNumber persists the invoice under a fresh number, re-rolling on a
// number collision. The insert runs in a savepoint so a collision does not
// abort the outer transaction. A duplicate on order_id is a real duplicate
// invoice and is rejected.
func (s *Service) insertWithNumber(tx *gorm.DB, invoice *models.Invoice) error {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		invoice.Number = s.newNumber()
		err := tx.Transaction(func(inner *gorm.DB) error {
			return inner.Create(invoice).Error
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		var count int64
		if err := tx.Model(&models.Invoice{}).Where("order_id = ?", invoice.OrderID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflictf("order %d already has an invoice", invoice.OrderID)
		}
		// number collision, roll a new one
		invoice.ID = 0
	}
	return apperr.Conflictf("could not allocate a unique invoice number")
}

func newInvoiceNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return invoicePrefix + raw[:invoiceNumberChars]
}

func (s *Service) List() ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.Order("issued_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) Get(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Order").Preload("Order.Items").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("invoice %d not found", id)
		}
		return nil, err
	}
	return &invoice, nil
}
