package handlers

import (
	"context"
	"errors"
	"net/http"

	"inquiry_service/internal/auth"
	"inquiry_service/internal/models"
	"inquiry_service/internal/service"
)

type EmployeeCreator interface {
	Create(ctx context.Context, employerID string, req *models.EmployeeRequest) (*models.EmployeeProfile, error)
}

type EmployeeHandler struct {
	employees EmployeeCreator
}

func NewEmployeeHandler(employees EmployeeCreator) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// POST /api/employees
// 201: created employee profile
// 400: invalid input
// 500: provisioning failed
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	employerID := auth.UserIDFromContext(r.Context())

	emp, err := h.employees.Create(r.Context(), employerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create employee")
		}
		return
	}

	writeJSON(w, http.StatusCreated, emp)
}
