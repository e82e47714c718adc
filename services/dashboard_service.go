package services

import (
	"errors"
	"time"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyPointDTO представляет точку помесячного ряда
type MonthlyPointDTO struct {
	Month  string          `json:"month"` // ГГГГ-ММ
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// RecentLoanDTO представляет займ в блоке последних операций
type RecentLoanDTO struct {
	ID              uint            `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	CustomerName    string          `json:"customer_name"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	Status          string          `json:"status"`
	RiskZone        string          `json:"risk_zone"`
	CreatedAt       time.Time       `json:"created_at"`
}

// RecentPaymentDTO представляет платеж в блоке последних операций
type RecentPaymentDTO struct {
	ID            uint            `json:"id"`
	PaymentCode   string          `json:"payment_code"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DashboardDTO представляет сводку для панели мониторинга
type DashboardDTO struct {
	TotalCustomers     int64                      `json:"total_customers"`
	TotalLoans         int64                      `json:"total_loans"`
	ActiveLoans        int64                      `json:"active_loans"`
	OverdueLoans       int64                      `json:"overdue_loans"`
	TotalOrnaments     int64                      `json:"total_ornaments"`
	PledgedOrnaments   int64                      `json:"pledged_ornaments"`
	TotalPayments      int64                      `json:"total_payments"`
	RedZoneLoans       int64                      `json:"red_zone_loans"`
	YellowZoneLoans    int64                      `json:"yellow_zone_loans"`
	TotalDisbursed     decimal.Decimal            `json:"total_disbursed"`
	TotalOutstanding   decimal.Decimal            `json:"total_outstanding"`
	InterestCollected  decimal.Decimal            `json:"interest_collected"`
	LoansByStatus      map[string]int64           `json:"loans_by_status"`
	LoansByRiskZone    map[string]int64           `json:"loans_by_risk_zone"`
	MonthlyLoans       []MonthlyPointDTO          `json:"monthly_loans"`
	MonthlyCollections []MonthlyPointDTO          `json:"monthly_collections"`
	RecentLoans        []RecentLoanDTO            `json:"recent_loans"`
	RecentPayments     []RecentPaymentDTO         `json:"recent_payments"`
}

// DashboardService собирает сводку по портфелю займов
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService создает новый экземпляр DashboardService
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// GetSummary возвращает сводку. На пустой базе возвращаются нулевые
// значения и пустые списки, а не ошибка.
func (s *DashboardService) GetSummary() (*DashboardDTO, error) {
	summary := &DashboardDTO{
		TotalDisbursed:     decimal.Zero,
		TotalOutstanding:   decimal.Zero,
		InterestCollected:  decimal.Zero,
		LoansByStatus:      map[string]int64{},
		LoansByRiskZone:    map[string]int64{},
		MonthlyLoans:       []MonthlyPointDTO{},
		MonthlyCollections: []MonthlyPointDTO{},
		RecentLoans:        []RecentLoanDTO{},
		RecentPayments:     []RecentPaymentDTO{},
	}

	if err := s.db.Model(&models.Customer{}).Count(&summary.TotalCustomers).Error; err != nil {
		return nil, errors.New("ошибка при подсчете клиентов")
	}
	if err := s.db.Model(&models.Loan{}).Count(&summary.TotalLoans).Error; err != nil {
		return nil, errors.New("ошибка при подсчете займов")
	}
	if err := s.db.Model(&models.Ornament{}).Count(&summary.TotalOrnaments).Error; err != nil {
		return nil, errors.New("ошибка при подсчете украшений")
	}
	if err := s.db.Model(&models.Ornament{}).Where("status = ?", models.OrnamentStatusPledged).Count(&summary.PledgedOrnaments).Error; err != nil {
		return nil, errors.New("ошибка при подсчете заложенных украшений")
	}
	if err := s.db.Model(&models.Payment{}).Count(&summary.TotalPayments).Error; err != nil {
		return nil, errors.New("ошибка при подсчете платежей")
	}

	// Распределение займов по статусам и зонам риска
	type groupRow struct {
		Key   string
		Total int64
	}
	var statusRows []groupRow
	err := s.db.Model(&models.Loan{}).
		Select("status AS key, COUNT(*) AS total").
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, errors.New("ошибка при группировке займов по статусам")
	}
	for _, row := range statusRows {
		summary.LoansByStatus[row.Key] = row.Total
	}
	summary.ActiveLoans = summary.LoansByStatus[string(models.LoanStatusActive)]
	summary.OverdueLoans = summary.LoansByStatus[string(models.LoanStatusOverdue)]

	var zoneRows []groupRow
	err = s.db.Model(&models.Loan{}).
		Select("risk_zone AS key, COUNT(*) AS total").
		Group("risk_zone").
		Scan(&zoneRows).Error
	if err != nil {
		return nil, errors.New("ошибка при группировке займов по зонам риска")
	}
	for _, row := range zoneRows {
		summary.LoansByRiskZone[row.Key] = row.Total
	}
	summary.RedZoneLoans = summary.LoansByRiskZone[string(models.RiskZoneRed)]
	summary.YellowZoneLoans = summary.LoansByRiskZone[string(models.RiskZoneYellow)]

	// Денежные агрегаты считаются по выбранным строкам, чтобы не зависеть
	// от того, как конкретная СУБД суммирует десятичные колонки
	var loanSums []struct {
		Status               models.LoanStatus
		PrincipalAmount      decimal.Decimal
		OutstandingPrincipal decimal.Decimal
		OutstandingInterest  decimal.Decimal
		TotalInterestPaid    decimal.Decimal
	}
	err = s.db.Model(&models.Loan{}).
		Select("status", "principal_amount", "outstanding_principal", "outstanding_interest", "total_interest_paid").
		Scan(&loanSums).Error
	if err != nil {
		return nil, errors.New("ошибка при расчете денежных агрегатов")
	}
	for _, row := range loanSums {
		summary.TotalDisbursed = summary.TotalDisbursed.Add(row.PrincipalAmount)
		summary.InterestCollected = summary.InterestCollected.Add(row.TotalInterestPaid)
		if row.Status == models.LoanStatusActive || row.Status == models.LoanStatusOverdue {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(row.OutstandingPrincipal).Add(row.OutstandingInterest)
		}
	}

	if err := s.fillMonthlySeries(summary); err != nil {
		return nil, err
	}
	if err := s.fillRecent(summary); err != nil {
		return nil, err
	}

	return summary, nil
}

// fillMonthlySeries заполняет помесячные ряды за последние шесть месяцев.
// Агрегация выполняется в коде, чтобы не зависеть от диалекта дат СУБД.
func (s *DashboardService) fillMonthlySeries(summary *DashboardDTO) error {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	months := make([]string, 6)
	loanPoints := make(map[string]*MonthlyPointDTO, 6)
	paymentPoints := make(map[string]*MonthlyPointDTO, 6)
	for i := 0; i < 6; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		months[i] = month
		loanPoints[month] = &MonthlyPointDTO{Month: month, Amount: decimal.Zero}
		paymentPoints[month] = &MonthlyPointDTO{Month: month, Amount: decimal.Zero}
	}

	var loans []struct {
		CreatedAt       time.Time
		PrincipalAmount decimal.Decimal
	}
	err := s.db.Model(&models.Loan{}).
		Select("created_at", "principal_amount").
		Where("created_at >= ?", start).
		Scan(&loans).Error
	if err != nil {
		return errors.New("ошибка при построении ряда займов")
	}
	for _, loan := range loans {
		if point, ok := loanPoints[loan.CreatedAt.Format("2006-01")]; ok {
			point.Count++
			point.Amount = point.Amount.Add(loan.PrincipalAmount)
		}
	}

	var payments []struct {
		CreatedAt time.Time
		Amount    decimal.Decimal
	}
	err = s.db.Model(&models.Payment{}).
		Select("created_at", "amount").
		Where("created_at >= ?", start).
		Scan(&payments).Error
	if err != nil {
		return errors.New("ошибка при построении ряда платежей")
	}
	for _, payment := range payments {
		if point, ok := paymentPoints[payment.CreatedAt.Format("2006-01")]; ok {
			point.Count++
			point.Amount = point.Amount.Add(payment.Amount)
		}
	}

	for _, month := range months {
		summary.MonthlyLoans = append(summary.MonthlyLoans, *loanPoints[month])
		summary.MonthlyCollections = append(summary.MonthlyCollections, *paymentPoints[month])
	}

	return nil
}

// fillRecent заполняет блоки последних займов и платежей
func (s *DashboardService) fillRecent(summary *DashboardDTO) error {
	var loans []models.Loan
	err := s.db.Preload("Customer", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "first_name", "last_name")
	}).
		Order("created_at DESC").
		Limit(5).
		Find(&loans).Error
	if err != nil {
		return errors.New("ошибка при получении последних займов")
	}
	for _, loan := range loans {
		summary.RecentLoans = append(summary.RecentLoans, RecentLoanDTO{
			ID:              loan.ID,
			ReferenceNumber: loan.ReferenceNumber,
			CustomerName:    loan.Customer.FirstName + " " + loan.Customer.LastName,
			PrincipalAmount: loan.PrincipalAmount,
			Status:          string(loan.Status),
			RiskZone:        string(loan.RiskZone),
			CreatedAt:       loan.CreatedAt,
		})
	}

	var payments []models.Payment
	err = s.db.Preload("Loan", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "reference_number")
	}).
		Order("created_at DESC").
		Limit(5).
		Find(&payments).Error
	if err != nil {
		return errors.New("ошибка при получении последних платежей")
	}
	if len(payments) > 0 {
		// Имена клиентов добираются одним запросом
		ids := make([]uint, 0, len(payments))
		for _, payment := range payments {
			ids = append(ids, payment.CustomerID)
		}
		var customers []models.Customer
		if err := s.db.Select("id", "first_name", "last_name").Where("id IN ?", ids).Find(&customers).Error; err != nil {
			return errors.New("ошибка при получении клиентов платежей")
		}
		names := make(map[uint]string, len(customers))
		for _, customer := range customers {
			names[customer.ID] = customer.FirstName + " " + customer.LastName
		}
		for _, payment := range payments {
			summary.RecentPayments = append(summary.RecentPayments, RecentPaymentDTO{
				ID:            payment.ID,
				PaymentCode:   payment.PaymentCode,
				CustomerName:  names[payment.CustomerID],
				Amount:        payment.Amount,
				PaymentMethod: payment.PaymentMethod,
				CreatedAt:     payment.CreatedAt,
			})
		}
	}

	return nil
}
