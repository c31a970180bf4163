// Package orders implements the order workflow: a customer's open tab
// against a table, holding price-locked line items.
package orders

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"comanda-system/internal/apperr"
	"comanda-system/internal/database/models"
	"comanda-system/internal/services/tables"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ItemInput struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Note      *string `json:"note"`
}

type CreateInput struct {
	TableID *uint       `json:"table_id"` // nil for takeout
	Note    *string     `json:"note"`
	Items   []ItemInput `json:"items" binding:"required"`
}

// Create opens an order for employeeID. Everything runs in one transaction:
// header insert, line items priced from the catalog at this moment, total
// sum, table reservation. Any failure rolls the whole thing back.
func (s *Service) Create(employeeID uint, in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validationf("order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, apperr.Validationf("item quantity must be a positive integer")
		}
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("employee %d not found", employeeID)
			}
			return err
		}

		order = models.Order{
			TableID:    in.TableID,
			EmployeeID: employeeID,
			PlacedAt:   time.Now(),
			Note:       in.Note,
			TotalCost:  decimal.Zero,
			Status:     models.OrderOpen,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			var product models.Product
			err := tx.Where("id = ? AND available = ? AND active = ?", item.ProductID, true, true).
				First(&product).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validationf("product %d does not exist or is not available", item.ProductID)
				}
				return err
			}

			// unit price locked here; later product price edits never touch it
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				Note:      item.Note,
				Subtotal:  subtotal,
				Status:    models.ItemPending,
			})
			total = total.Add(subtotal)
		}

		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		if err := tx.Model(&order).Update("total_cost", total).Error; err != nil {
			return err
		}
		order.TotalCost = total
		order.Items = items

		if in.TableID != nil {
			if err := tables.Reserve(tx, *in.TableID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Submit sends an open order to the kitchen: ABIERTO -> EN_ESPERA.
func (s *Service) Submit(id uint) (*models.Order, error) {
	return s.transition(id, models.OrderOpen, models.OrderWaiting)
}

// MarkReady flags a kitchen order ready to serve: EN_ESPERA -> PREPARADO.
func (s *Service) MarkReady(id uint) (*models.Order, error) {
	return s.transition(id, models.OrderWaiting, models.OrderReady)
}

func (s *Service) transition(id uint, from, to models.OrderStatus) (*models.Order, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		order, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidStatef("order %d is %s, expected %s", id, order.Status, from)
	}
	return s.Get(id)
}

// Void cancels an order from any non-terminal state and frees its table.
func (s *Service) Void(id uint) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order %d not found", id)
			}
			return err
		}
		if order.Status.Terminal() {
			return apperr.InvalidStatef("order %d is already %s", id, order.Status)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status NOT IN ?", id, []models.OrderStatus{models.OrderClosed, models.OrderVoided}).
			Update("status", models.OrderVoided)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidStatef("order %d was closed concurrently", id)
		}

		if order.TableID != nil {
			return tables.Free(tx, *order.TableID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// List returns orders newest first. Without a filter the terminal statuses
// (CERRADO, ANULADO) are excluded; an explicit filter returns exactly that
// status.
func (s *Service) List(status *models.OrderStatus) ([]models.Order, error) {
	query := s.db.Model(&models.Order{}).Preload("Items").Order("placed_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	} else {
		query = query.Where("status NOT IN ?", []models.OrderStatus{models.OrderClosed, models.OrderVoided})
	}
	var out []models.Order
	err := query.Find(&out).Error
	return out, err
}

func (s *Service) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Product").Preload("Table").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order %d not found", id)
		}
		return nil, err
	}
	return &order, nil
}
