package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"goldloan/utils"

	"github.com/gorilla/mux"
)

// PaginationDTO представляет блок пагинации в ответах списков
type PaginationDTO struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// writeJSON отправляет ответ в формате JSON
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writePaginated отправляет страницу списка с блоком пагинации
func writePaginated(w http.ResponseWriter, items interface{}, page, limit int, total int64) {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"pagination": PaginationDTO{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

// parseID извлекает числовой идентификатор из пути запроса
func parseID(r *http.Request) (uint, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parsePagination извлекает параметры пагинации из строки запроса
func parsePagination(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// writeServiceError переводит ошибку сервиса в HTTP-статус.
// Бизнес-проверки и валидация возвращают 400, отсутствующие записи 404,
// остальное считается внутренней ошибкой.
func writeServiceError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "не найден"):
		http.Error(w, msg, http.StatusNotFound)
	case strings.Contains(msg, "поле "),
		strings.Contains(msg, "нельзя"),
		strings.Contains(msg, "уже"),
		strings.Contains(msg, "должн"),
		strings.Contains(msg, "не могут"),
		strings.Contains(msg, "не может"),
		strings.Contains(msg, "превышает"),
		strings.Contains(msg, "недоступна"),
		strings.Contains(msg, "черном списке"),
		strings.Contains(msg, "не имеет"),
		strings.Contains(msg, "не проходит"),
		strings.Contains(msg, "относиться"):
		http.Error(w, msg, http.StatusBadRequest)
	default:
		utils.LogError("Внутренняя ошибка: %v", err)
		utils.GetMetrics().RecordError(err)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}
