package handlers

import (
	"github.com/gin-gonic/gin"

	"comanda-system/internal/api/middleware"
	"comanda-system/internal/database/models"
	"comanda-system/internal/services/orders"
)

type OrderHandler struct {
	orders *orders.Service
}

func NewOrderHandler(ordersService *orders.Service) *OrderHandler {
	return &OrderHandler{orders: ordersService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var in orders.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "items are required")
		return
	}

	order, err := h.orders.Create(middleware.EmployeeID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	var filter *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		filter = &status
	}

	out, err := h.orders.List(filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	order, err := h.orders.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

func (h *OrderHandler) Submit(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	order, err := h.orders.Submit(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

func (h *OrderHandler) MarkReady(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	order, err := h.orders.MarkReady(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

func (h *OrderHandler) Void(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	order, err := h.orders.Void(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}
