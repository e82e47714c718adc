package services

import (
	"fmt"
	"time"

	"goldloan/config"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	config *config.Config
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
		config: cfg,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendLoanDisbursedNotification отправляет уведомление о выдаче займа
func (s *EmailService) SendLoanDisbursedNotification(to, referenceNumber string, principal decimal.Decimal, tenureMonths int) error {
	subject := "Уведомление о выдаче займа"
	body := fmt.Sprintf(`
		<h2>Займ выдан</h2>
		<p>Номер займа: %s</p>
		<p>Сумма займа: %s</p>
		<p>Срок займа: %d месяцев</p>
		<p>Дата: %s</p>
		<p>Заложенные украшения будут возвращены после полного погашения займа.</p>
	`, referenceNumber, principal.StringFixed(2), tenureMonths, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendLoanClosedNotification отправляет уведомление о закрытии займа
func (s *EmailService) SendLoanClosedNotification(to, referenceNumber string) error {
	subject := "Поздравляем! Ваш займ успешно погашен"
	body := fmt.Sprintf(`
		<h2>Поздравляем!</h2>
		<p>Ваш займ %s был полностью погашен и закрыт.</p>
		<p>Заложенные украшения готовы к выдаче в вашем филиале.</p>
		<p>Спасибо, что выбрали нас!</p>
	`, referenceNumber)

	return s.SendEmail(to, subject, body)
}

// SendOverdueNotification отправляет уведомление о просрочке платежа
func (s *EmailService) SendOverdueNotification(to, referenceNumber string, dueDate time.Time) error {
	subject := "Напоминание о просроченном платеже"
	body := fmt.Sprintf(`
		<h2>Платеж просрочен</h2>
		<p>По займу %s платеж ожидался %s.</p>
		<p>Пожалуйста, обратитесь в ваш филиал для погашения задолженности.</p>
	`, referenceNumber, dueDate.Format("02.01.2006"))

	return s.SendEmail(to, subject, body)
}
