package controllers

import (
	"net/http"
	"strconv"

	"goldloan/database"
	"goldloan/services"
)

// AuditController обрабатывает запросы журнала аудита
type AuditController struct {
	auditService *services.AuditService
}

// NewAuditController создает новый экземпляр AuditController
func NewAuditController(db *database.Database) *AuditController {
	return &AuditController{
		auditService: services.NewAuditService(db.DB),
	}
}

// GetAuditLogs обрабатывает запрос на получение журнала аудита
func (c *AuditController) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	userID, _ := strconv.ParseUint(r.URL.Query().Get("userId"), 10, 32)
	filter := services.AuditListFilter{
		Module: r.URL.Query().Get("module"),
		Action: r.URL.Query().Get("action"),
		UserID: uint(userID),
		Page:   page,
		Limit:  limit,
	}

	logs, total, err := c.auditService.List(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writePaginated(w, logs, page, limit, total)
}
