package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	KYCHMACKey string // Ключ для HMAC-подписи номеров KYC-документов
}

// NewConfig создает новый экземпляр конфигурации
func NewConfig() (*Config, error) {
	cfg := &Config{}

	// Настройки сервера
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат порта сервера: %v", err)
	}
	cfg.Server.Port = port

	// Настройки базы данных
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат порта базы данных: %v", err)
	}
	cfg.DB.Port = dbPort
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "goldloan_db")

	// Настройки JWT
	cfg.JWT.SecretKey = getEnv("JWT_SECRET_KEY", "goldloan-secret-key")
	jwtExpiresIn, err := strconv.Atoi(getEnv("JWT_EXPIRES_IN", "24"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат времени жизни JWT: %v", err)
	}
	cfg.JWT.ExpiresIn = jwtExpiresIn

	// Настройки SMTP
	cfg.SMTP.Host = getEnv("SMTP_HOST", "smtp.gmail.com")
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат порта SMTP: %v", err)
	}
	cfg.SMTP.Port = smtpPort
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "noreply@goldloan.local")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	cfg.SMTP.From = getEnv("SMTP_FROM", "noreply@goldloan.local")

	// Ключ HMAC для KYC-документов
	cfg.KYCHMACKey = getEnv("KYC_HMAC_KEY", "goldloan-kyc-hmac-key")

	return cfg, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
