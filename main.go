package main

import (
	"fmt"
	"log"
	"net/http"

	"goldloan/config"
	"goldloan/controllers"
	"goldloan/database"
	"goldloan/middleware"
	"goldloan/services"

	"github.com/gorilla/mux"
)

// gated оборачивает обработчик проверкой прав по таблице ролей
func gated(op middleware.Operation, handler http.HandlerFunc) http.Handler {
	return middleware.RequirePermission(op)(handler)
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	// Инициализируем сервис email
	emailService := services.NewEmailService(cfg)

	// Создаем роутер
	router := mux.NewRouter()

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db, cfg)
	customerController := controllers.NewCustomerController(db, cfg)
	ornamentController := controllers.NewOrnamentController(db)
	loanController := controllers.NewLoanController(db, emailService)
	paymentController := controllers.NewPaymentController(db, emailService)
	rateController := controllers.NewRateController(db)
	settingsController := controllers.NewSettingsController(db)
	dashboardController := controllers.NewDashboardController(db)
	importController := controllers.NewImportController(db)
	branchController := controllers.NewBranchController(db)
	userController := controllers.NewUserController(db)
	auditController := controllers.NewAuditController(db)
	noteController := controllers.NewNoteController(db)
	notificationController := controllers.NewNotificationController(db)
	adminController := controllers.NewAdminController(db)

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(cfg.JWT.SecretKey)))
	protected.Use(middleware.LoggingMiddleware)
	protected.Use(middleware.RateLimitMiddleware)

	// Маршруты для работы с клиентами
	protected.HandleFunc("/customers", customerController.CreateCustomer).Methods("POST")
	protected.HandleFunc("/customers", customerController.GetCustomers).Methods("GET")
	protected.HandleFunc("/customers/{id}", customerController.GetCustomer).Methods("GET")
	protected.HandleFunc("/customers/{id}", customerController.UpdateCustomer).Methods("PUT")
	protected.Handle("/customers/{id}", gated(middleware.OpDeleteCustomer, customerController.DeleteCustomer)).Methods("DELETE")

	// Маршруты для работы с украшениями
	protected.HandleFunc("/ornaments", ornamentController.CreateOrnament).Methods("POST")
	protected.HandleFunc("/ornaments", ornamentController.GetOrnaments).Methods("GET")
	protected.HandleFunc("/ornaments/{id}", ornamentController.GetOrnament).Methods("GET")
	protected.HandleFunc("/ornaments/{id}", ornamentController.UpdateOrnament).Methods("PUT")
	protected.Handle("/ornaments/{id}", gated(middleware.OpDeleteOrnament, ornamentController.DeleteOrnament)).Methods("DELETE")

	// Маршруты для работы с займами
	protected.HandleFunc("/loans", loanController.CreateLoan).Methods("POST")
	protected.HandleFunc("/loans", loanController.GetLoans).Methods("GET")
	protected.HandleFunc("/loans/{id}", loanController.GetLoan).Methods("GET")
	protected.HandleFunc("/loans/{id}", loanController.UpdateLoan).Methods("PUT")
	protected.Handle("/loans/{id}", gated(middleware.OpDeleteLoan, loanController.DeleteLoan)).Methods("DELETE")

	// Маршруты для работы с платежами
	protected.HandleFunc("/payments", paymentController.CreatePayment).Methods("POST")
	protected.HandleFunc("/payments", paymentController.GetPayments).Methods("GET")
	protected.HandleFunc("/payments/{id}", paymentController.GetPayment).Methods("GET")

	// Маршруты для работы с котировками
	protected.Handle("/rates", gated(middleware.OpCreateRate, rateController.CreateRate)).Methods("POST")
	protected.HandleFunc("/rates", rateController.GetRates).Methods("GET")

	// Маршруты для работы с настройками
	protected.HandleFunc("/settings", settingsController.GetSettings).Methods("GET")
	protected.Handle("/settings", gated(middleware.OpUpdateSettings, settingsController.UpdateSettings)).Methods("PUT")

	// Панель мониторинга
	protected.HandleFunc("/dashboard", dashboardController.GetDashboard).Methods("GET")

	// Массовый импорт
	protected.Handle("/import/customers", gated(middleware.OpImportRecords, importController.ImportCustomers)).Methods("POST")
	protected.Handle("/import/loans", gated(middleware.OpImportRecords, importController.ImportLoans)).Methods("POST")

	// Филиалы
	protected.Handle("/branches", gated(middleware.OpCreateBranch, branchController.CreateBranch)).Methods("POST")
	protected.HandleFunc("/branches", branchController.GetBranches).Methods("GET")

	// Сотрудники
	protected.Handle("/users", gated(middleware.OpManageUsers, userController.CreateUser)).Methods("POST")
	protected.Handle("/users", gated(middleware.OpManageUsers, userController.GetUsers)).Methods("GET")

	// Журнал аудита
	protected.HandleFunc("/audit", auditController.GetAuditLogs).Methods("GET")

	// Заметки
	protected.HandleFunc("/notes", noteController.CreateNote).Methods("POST")
	protected.HandleFunc("/notes", noteController.GetNotes).Methods("GET")

	// Уведомления
	protected.HandleFunc("/notifications", notificationController.CreateNotification).Methods("POST")
	protected.HandleFunc("/notifications", notificationController.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", notificationController.MarkNotificationRead).Methods("PUT")

	// Служебные маршруты администратора
	protected.Handle("/admin/reevaluate", gated(middleware.OpReevaluateRisk, adminController.ReevaluateRisk)).Methods("POST")
	protected.Handle("/admin/metrics", gated(middleware.OpViewMetrics, adminController.GetMetrics)).Methods("GET")

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
