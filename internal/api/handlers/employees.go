package handlers

import (
	"github.com/gin-gonic/gin"

	"comanda-system/internal/api/middleware"
	"comanda-system/internal/database/models"
	"comanda-system/internal/services/users"
)

type EmployeeHandler struct {
	users *users.Service
}

func NewEmployeeHandler(usersService *users.Service) *EmployeeHandler {
	return &EmployeeHandler{users: usersService}
}

// employeeView hides the password hash from responses.
type employeeView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Cedula   string `json:"cedula"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

func view(e *models.Employee) employeeView {
	return employeeView{
		ID:       e.ID,
		Username: e.Username,
		Email:    e.Email,
		Name:     e.Name,
		LastName: e.LastName,
		Cedula:   e.Cedula,
		Role:     string(e.Role),
		Active:   e.Active,
	}
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var in users.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "username, email, password and cedula are required")
		return
	}
	employee, err := h.users.Create(in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, view(employee))
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.users.List()
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]employeeView, 0, len(employees))
	for i := range employees {
		out = append(out, view(&employees[i]))
	}
	ok(c, out)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	employee, err := h.users.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view(employee))
}

func (h *EmployeeHandler) Me(c *gin.Context) {
	employee, err := h.users.Get(middleware.EmployeeID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view(employee))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var in users.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	employee, err := h.users.Update(id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view(employee))
}

func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	employee, err := h.users.Deactivate(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view(employee))
}
