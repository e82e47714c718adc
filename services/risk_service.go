package services

import (
	"errors"
	"time"

	"goldloan/models"
	"goldloan/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RiskReportDTO представляет итог переоценки рисков
type RiskReportDTO struct {
	Processed     int `json:"processed"`
	MarkedOverdue int `json:"marked_overdue"`
	Escalated     int `json:"escalated"`
}

// RiskService переоценивает зоны риска портфеля. Переоценка запускается
// администратором через API, фоновых задач нет.
type RiskService struct {
	db       *gorm.DB
	settings *SettingsService
	audit    *AuditService
}

// NewRiskService создает новый экземпляр RiskService
func NewRiskService(db *gorm.DB, settings *SettingsService, audit *AuditService) *RiskService {
	return &RiskService{db: db, settings: settings, audit: audit}
}

// zoneRank задает порядок зон для сравнения: зона при переоценке
// может только ухудшаться
func zoneRank(zone models.RiskZone) int {
	switch zone {
	case models.RiskZoneRed:
		return 2
	case models.RiskZoneYellow:
		return 1
	default:
		return 0
	}
}

// Reevaluate помечает просроченные займы и пересчитывает зоны риска.
// Каждый займ обрабатывается в собственной транзакции: сбой на одном
// займе не откатывает уже переоцененные.
func (s *RiskService) Reevaluate(actorID uint) (*RiskReportDTO, error) {
	yellowThreshold := s.settings.GetDecimal(models.SettingYellowZoneThreshold, decimal.NewFromInt(80))
	redThreshold := s.settings.GetDecimal(models.SettingRedZoneThreshold, decimal.NewFromInt(90))
	overdueDaysRed := s.settings.GetInt(models.SettingOverdueDaysRed, 15)

	var loans []models.Loan
	err := s.db.Where("status IN ?", []models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}).
		Find(&loans).Error
	if err != nil {
		return nil, errors.New("ошибка при получении займов для переоценки")
	}

	report := &RiskReportDTO{}
	now := time.Now()

	for _, loan := range loans {
		report.Processed++

		oldLoan := loan
		changed := false

		// Помечаем просрочку
		if loan.Status == models.LoanStatusActive && now.After(loan.DueDate) {
			loan.Status = models.LoanStatusOverdue
			report.MarkedOverdue++
			changed = true
		}

		// Зона по текущему LTV
		zone := models.RiskZoneGreen
		if loan.LoanToValueRatio.GreaterThanOrEqual(redThreshold) {
			zone = models.RiskZoneRed
		} else if loan.LoanToValueRatio.GreaterThanOrEqual(yellowThreshold) {
			zone = models.RiskZoneYellow
		}

		// Длительная просрочка переводит займ в красную зону независимо от LTV
		if loan.Status == models.LoanStatusOverdue {
			overdueDays := int(now.Sub(loan.DueDate).Hours() / 24)
			if overdueDays >= overdueDaysRed {
				zone = models.RiskZoneRed
			}
		}

		escalated := zoneRank(zone) > zoneRank(loan.RiskZone)
		if escalated {
			loan.RiskZone = zone
			report.Escalated++
			changed = true
		}

		if !changed {
			continue
		}

		if err := s.applyChange(&loan, oldLoan, escalated, actorID); err != nil {
			utils.LogError("Переоценка займа %s не выполнена: %v", loan.ReferenceNumber, err)
		}
	}

	utils.LogInfo("Переоценка рисков: обработано %d, просрочено %d, ухудшено зон %d",
		report.Processed, report.MarkedOverdue, report.Escalated)

	return report, nil
}

// applyChange сохраняет изменения одного займа в собственной транзакции
func (s *RiskService) applyChange(loan *models.Loan, oldLoan models.Loan, escalated bool, actorID uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при создании транзакции")
	}

	if err := tx.Save(loan).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при обновлении займа")
	}

	if escalated {
		notification := models.Notification{
			LoanID:     &loan.ID,
			CustomerID: &loan.CustomerID,
			Type:       "RISK",
			Title:      "Зона риска ухудшена",
			Message:    "Займ " + loan.ReferenceNumber + " переведен в зону " + string(loan.RiskZone),
			Priority:   "HIGH",
			Channel:    "IN_APP",
			Status:     models.NotificationUnread,
		}
		if err := tx.Create(&notification).Error; err != nil {
			tx.Rollback()
			return errors.New("ошибка при создании уведомления")
		}
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionUpdate, models.AuditModuleLoan, loan.ID, oldLoan, loan); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}
