package handlers

import (
	"github.com/gin-gonic/gin"

	"comanda-system/internal/services/billing"
)

type InvoiceHandler struct {
	billing *billing.Service
}

func NewInvoiceHandler(billingService *billing.Service) *InvoiceHandler {
	return &InvoiceHandler{billing: billingService}
}

// Create is the only write endpoint for invoices; they are never updated or
// deleted.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var in billing.IssueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "order_id, payment_method and client_name are required")
		return
	}

	invoice, err := h.billing.Issue(in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, invoice)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	out, err := h.billing.List()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	invoice, err := h.billing.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, invoice)
}
