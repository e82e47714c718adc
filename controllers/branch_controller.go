package controllers

import (
	"encoding/json"
	"net/http"

	"goldloan/database"
	"goldloan/services"
)

// BranchController обрабатывает запросы, связанные с филиалами
type BranchController struct {
	branchService *services.BranchService
}

// NewBranchController создает новый экземпляр BranchController
func NewBranchController(db *database.Database) *BranchController {
	audit := services.NewAuditService(db.DB)
	return &BranchController{
		branchService: services.NewBranchService(db.DB, audit),
	}
}

// CreateBranch обрабатывает запрос на создание филиала
func (c *BranchController) CreateBranch(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateBranchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	branch, err := c.branchService.Create(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, branch)
}

// GetBranches обрабатывает запрос на получение списка филиалов
func (c *BranchController) GetBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := c.branchService.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, branches)
}
