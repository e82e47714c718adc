package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"goldloan/database"
	"goldloan/services"
)

// NotificationController обрабатывает запросы, связанные с уведомлениями
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController создает новый экземпляр NotificationController
func NewNotificationController(db *database.Database) *NotificationController {
	return &NotificationController{
		notificationService: services.NewNotificationService(db.DB),
	}
}

// CreateNotification обрабатывает запрос на создание уведомления
func (c *NotificationController) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var dto services.CreateNotificationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	notification, err := c.notificationService.Create(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, notification)
}

// GetNotifications обрабатывает запрос на получение уведомлений
func (c *NotificationController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := c.notificationService.List(r.URL.Query().Get("status"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead обрабатывает запрос на отметку уведомления прочитанным
func (c *NotificationController) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	notification, err := c.notificationService.MarkRead(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notification)
}
