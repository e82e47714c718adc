package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"goldloan/database"
	"goldloan/services"
)

// NoteController обрабатывает запросы, связанные с заметками
type NoteController struct {
	noteService *services.NoteService
}

// NewNoteController создает новый экземпляр NoteController
func NewNoteController(db *database.Database) *NoteController {
	return &NoteController{
		noteService: services.NewNoteService(db.DB),
	}
}

// CreateNote обрабатывает запрос на создание заметки
func (c *NoteController) CreateNote(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateNoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	note, err := c.noteService.Create(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// GetNotes обрабатывает запрос на получение заметок
func (c *NoteController) GetNotes(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.ParseUint(r.URL.Query().Get("customerId"), 10, 32)
	loanID, _ := strconv.ParseUint(r.URL.Query().Get("loanId"), 10, 32)

	notes, err := c.noteService.List(uint(customerID), uint(loanID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}
