package handlers

import (
	"github.com/gin-gonic/gin"

	"comanda-system/internal/services/tables"
)

type TableHandler struct {
	tables *tables.Service
}

func NewTableHandler(tablesService *tables.Service) *TableHandler {
	return &TableHandler{tables: tablesService}
}

func (h *TableHandler) Create(c *gin.Context) {
	var in tables.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "number and capacity are required")
		return
	}
	table, err := h.tables.Create(in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, table)
}

func (h *TableHandler) List(c *gin.Context) {
	out, err := h.tables.List()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

func (h *TableHandler) Get(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	table, err := h.tables.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, table)
}

func (h *TableHandler) Update(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var in tables.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	table, err := h.tables.Update(id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, table)
}

func (h *TableHandler) Occupy(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	table, err := h.tables.Occupy(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, table)
}

func (h *TableHandler) Release(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	table, err := h.tables.Release(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, table)
}
