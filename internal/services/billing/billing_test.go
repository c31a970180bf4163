package billing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"comanda-system/internal/apperr"
	"comanda-system/internal/database"
	"comanda-system/internal/database/models"
	"comanda-system/internal/services/orders"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedOrder creates a seated order with the given line items through the
// order service, so billing tests exercise the same path production does.
func seedOrder(t *testing.T, db *gorm.DB, prices map[string]int, takeout bool) (*models.Order, *models.DiningTable) {
	t.Helper()

	waiter := models.Employee{Username: "mesero1", Email: "m@test", Password: "x", Cedula: "111", Role: models.RoleWaiter, Active: true}
	if err := db.Create(&waiter).Error; err != nil {
		t.Fatalf("waiter: %v", err)
	}
	category := models.Category{Name: "Platos", Active: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("category: %v", err)
	}

	items := make([]orders.ItemInput, 0, len(prices))
	for price, qty := range prices {
		product := models.Product{
			Name:       "Producto " + price,
			Price:      decimal.RequireFromString(price),
			Available:  true,
			Active:     true,
			CategoryID: category.ID,
		}
		if err := db.Create(&product).Error; err != nil {
			t.Fatalf("product: %v", err)
		}
		items = append(items, orders.ItemInput{ProductID: product.ID, Quantity: qty})
	}

	in := orders.CreateInput{Items: items}
	var table *models.DiningTable
	if !takeout {
		table = &models.DiningTable{Number: 3, Capacity: 4}
		if err := db.Create(table).Error; err != nil {
			t.Fatalf("table: %v", err)
		}
		in.TableID = &table.ID
	}

	order, err := orders.NewService(db).Create(waiter.ID, in)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order, table
}

// seedOrder2 opens a second takeout order with its own fixtures so the
// unique columns do not collide with seedOrder's.
func seedOrder2(t *testing.T, db *gorm.DB, price string) *models.Order {
	t.Helper()

	waiter := models.Employee{Username: "mesero2", Email: "m2@test", Password: "x", Cedula: "222", Role: models.RoleWaiter, Active: true}
	if err := db.Create(&waiter).Error; err != nil {
		t.Fatalf("waiter: %v", err)
	}
	category := models.Category{Name: "Bebidas", Active: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("category: %v", err)
	}
	product := models.Product{
		Name:       "Jugo",
		Price:      decimal.RequireFromString(price),
		Available:  true,
		Active:     true,
		CategoryID: category.ID,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}

	order, err := orders.NewService(db).Create(waiter.ID, orders.CreateInput{
		Items: []orders.ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestIssueClosesOrderAndFreesTable(t *testing.T) {
	db := setupTestDB(t)
	// qty 2 @ 10.00 + qty 1 @ 5.00 => subtotal 25.00
	order, table := seedOrder(t, db, map[string]int{"10.00": 2, "5.00": 1}, false)
	s := NewService(db)

	invoice, err := s.Issue(IssueInput{
		OrderID:       order.ID,
		TaxPercent:    decimal.NewFromInt(16),
		Discount:      decimal.Zero,
		PaymentMethod: "efectivo",
		ClientName:    "Consumidor Final",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !invoice.Subtotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("subtotal = %s, want 25.00", invoice.Subtotal)
	}
	if !invoice.Total.Equal(decimal.RequireFromString("29.00")) {
		t.Fatalf("total = %s, want 29.00", invoice.Total)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.OrderClosed {
		t.Fatalf("order status = %s, want %s", reloaded.Status, models.OrderClosed)
	}

	var freed models.DiningTable
	if err := db.First(&freed, table.ID).Error; err != nil {
		t.Fatalf("reload table: %v", err)
	}
	if freed.Occupied {
		t.Fatal("table should be released after invoicing")
	}
}

func TestIssueTaxAndDiscountArithmetic(t *testing.T) {
	db := setupTestDB(t)
	order, _ := seedOrder(t, db, map[string]int{"100.00": 1}, true)
	s := NewService(db)

	invoice, err := s.Issue(IssueInput{
		OrderID:       order.ID,
		TaxPercent:    decimal.NewFromInt(16),
		Discount:      decimal.RequireFromString("5.00"),
		PaymentMethod: "tarjeta",
		ClientName:    "Cliente",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// 100.00 + 16.00 - 5.00
	if !invoice.Total.Equal(decimal.RequireFromString("111.00")) {
		t.Fatalf("total = %s, want 111.00", invoice.Total)
	}
}

func TestIssueTwiceIsRejected(t *testing.T) {
	db := setupTestDB(t)
	order, _ := seedOrder(t, db, map[string]int{"10.00": 1}, true)
	s := NewService(db)

	in := IssueInput{OrderID: order.ID, PaymentMethod: "efectivo", ClientName: "Cliente"}
	if _, err := s.Issue(in); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	_, err := s.Issue(in)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("second issue: err = %v, want conflict", err)
	}

	var count int64
	db.Model(&models.Invoice{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 1 {
		t.Fatalf("invoice count = %d, want 1", count)
	}
}

func TestIssueValidatesNegativeInputs(t *testing.T) {
	db := setupTestDB(t)
	order, _ := seedOrder(t, db, map[string]int{"10.00": 1}, true)
	s := NewService(db)

	_, err := s.Issue(IssueInput{
		OrderID:       order.ID,
		TaxPercent:    decimal.NewFromInt(-1),
		PaymentMethod: "efectivo",
		ClientName:    "Cliente",
	})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("negative tax: err = %v, want validation", err)
	}

	_, err = s.Issue(IssueInput{
		OrderID:       order.ID,
		Discount:      decimal.RequireFromString("-0.01"),
		PaymentMethod: "efectivo",
		ClientName:    "Cliente",
	})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("negative discount: err = %v, want validation", err)
	}

	// neither attempt may have half-closed the order
	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != models.OrderOpen {
		t.Fatalf("order status = %s, want %s", reloaded.Status, models.OrderOpen)
	}
}

func TestIssueVoidedOrderIsRejected(t *testing.T) {
	db := setupTestDB(t)
	order, _ := seedOrder(t, db, map[string]int{"10.00": 1}, true)
	if _, err := orders.NewService(db).Void(order.ID); err != nil {
		t.Fatalf("void: %v", err)
	}
	s := NewService(db)

	_, err := s.Issue(IssueInput{OrderID: order.ID, PaymentMethod: "efectivo", ClientName: "Cliente"})
	if !apperr.IsKind(err, apperr.InvalidState) {
		t.Fatalf("err = %v, want invalid state", err)
	}

	// the guarded close fails after the invoice insert; the whole
	// transaction must roll back and ANULADO must survive
	var count int64
	db.Model(&models.Invoice{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Fatalf("invoice count = %d, want 0", count)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.OrderVoided {
		t.Fatalf("order status = %s, want %s", reloaded.Status, models.OrderVoided)
	}
}

func TestIssueRerollsNumberOnCollision(t *testing.T) {
	db := setupTestDB(t)
	first, _ := seedOrder(t, db, map[string]int{"10.00": 1}, true)
	second := seedOrder2(t, db, "5.00")
	s := NewService(db)

	s.newNumber = func() string { return "FAC-AAAAAAAA" }
	if _, err := s.Issue(IssueInput{OrderID: first.ID, PaymentMethod: "efectivo", ClientName: "Cliente"}); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	numbers := []string{"FAC-AAAAAAAA", "FAC-BBBBBBBB"}
	s.newNumber = func() string {
		n := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return n
	}
	invoice, err := s.Issue(IssueInput{OrderID: second.ID, PaymentMethod: "efectivo", ClientName: "Cliente"})
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if invoice.Number != "FAC-BBBBBBBB" {
		t.Fatalf("number = %q, want the re-rolled FAC-BBBBBBBB", invoice.Number)
	}
}

func TestIssueGivesUpAfterExhaustedRerolls(t *testing.T) {
	db := setupTestDB(t)
	first, _ := seedOrder(t, db, map[string]int{"10.00": 1}, true)
	second := seedOrder2(t, db, "5.00")
	s := NewService(db)

	s.newNumber = func() string { return "FAC-AAAAAAAA" }
	if _, err := s.Issue(IssueInput{OrderID: first.ID, PaymentMethod: "efectivo", ClientName: "Cliente"}); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	_, err := s.Issue(IssueInput{OrderID: second.ID, PaymentMethod: "efectivo", ClientName: "Cliente"})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	var count int64
	db.Model(&models.Invoice{}).Where("order_id = ?", second.ID).Count(&count)
	if count != 0 {
		t.Fatalf("invoice count = %d, want 0", count)
	}
}

func TestIssueMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	s := NewService(db)

	_, err := s.Issue(IssueInput{OrderID: 999, PaymentMethod: "efectivo", ClientName: "Cliente"})
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestInvoiceNumberFormat(t *testing.T) {
	db := setupTestDB(t)
	order, _ := seedOrder(t, db, map[string]int{"10.00": 1}, true)
	s := NewService(db)

	invoice, err := s.Issue(IssueInput{OrderID: order.ID, PaymentMethod: "efectivo", ClientName: "Cliente"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !strings.HasPrefix(invoice.Number, invoicePrefix) {
		t.Fatalf("number %q missing prefix %q", invoice.Number, invoicePrefix)
	}
	if len(invoice.Number) != len(invoicePrefix)+invoiceNumberChars {
		t.Fatalf("number %q has wrong length", invoice.Number)
	}
}
