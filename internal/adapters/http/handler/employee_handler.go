package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onetenth/thanks-point/internal/core/employee"
)

// EmployeeHandler は社員管理のエンドポイントを提供します。
type EmployeeHandler struct {
	employees employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(uc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{employees: uc}
}

// employeeResponse はパスワードを含まない社員の外部表現です。
type employeeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	Email        string    `json:"email"`
	IsFirstLogin bool      `json:"isFirstLogin"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Department:   e.Department,
		Email:        e.Email,
		IsFirstLogin: e.IsFirstLogin,
		IsAdmin:      e.IsAdmin,
		CreatedAt:    e.CreatedAt,
	}
}

type createEmployeeRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// Create は POST /api/employees を処理します。
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.employees.CreateEmployee(c.Request.Context(), employee.CreateEmployeeInput{
		Name:       req.Name,
		Department: req.Department,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// List は GET /api/employees を処理します。社員は登録順で返されます。
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		response = append(response, toEmployeeResponse(e))
	}

	c.JSON(http.StatusOK, response)
}

// Delete は DELETE /api/employees/:id を処理します。紐づくサンキューも
// 削除されます。
func (h *EmployeeHandler) Delete(c *gin.Context) {
	err := h.employees.DeleteEmployee(c.Request.Context(), employee.DeleteEmployeeInput{
		ID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
