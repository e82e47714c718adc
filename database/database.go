package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"goldloan/config"
	"goldloan/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает новое подключение к базе данных
func NewDatabase(cfg *config.Config) (*Database, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Database{DB: db}, nil
}

// GetDB возвращает экземпляр GORM
func (d *Database) GetDB() *gorm.DB {
	return d.DB
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Connect устанавливает соединение с базой данных и выполняет миграции
func Connect(cfg *config.Config) (*gorm.DB, error) {
	// Формируем строку подключения
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.DBName,
	)

	// Настраиваем логгер
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Устанавливаем соединение
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	// Настраиваем пул соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула соединений: %v", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Выполняем SQL миграции
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("ошибка выполнения SQL миграций: %v", err)
	}

	// Выполняем автоматическую миграцию моделей
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("ошибка автоматической миграции моделей: %v", err)
	}

	// Заполняем справочные данные
	if err := Seed(db); err != nil {
		return nil, fmt.Errorf("ошибка заполнения справочных данных: %v", err)
	}

	return db, nil
}

// runMigrations выполняет SQL миграции
func runMigrations(cfg *config.Config) error {
	// Формируем URL для миграций
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.DBName,
	)

	// Создаем экземпляр миграции
	m, err := migrate.New(
		"file://migrations",
		dsn,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания миграции: %v", err)
	}

	// Выполняем миграции
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка выполнения миграций: %v", err)
	}

	return nil
}

// AutoMigrate выполняет автоматическую миграцию моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Customer{},
		&models.KYCDocument{},
		&models.Ornament{},
		&models.Loan{},
		&models.Payment{},
		&models.InterestLedgerEntry{},
		&models.MetalRate{},
		&models.Setting{},
		&models.Note{},
		&models.Notification{},
		&models.AuditLog{},
		&models.Sequence{},
	)
	if err != nil {
		return fmt.Errorf("ошибка автоматической миграции: %v", err)
	}

	return nil
}

// defaultSettings содержит настройки, создаваемые при первом запуске
var defaultSettings = []models.Setting{
	{Key: models.SettingDefaultInterestRate, Value: "12", Description: "Годовая процентная ставка по умолчанию (%)"},
	{Key: models.SettingMaxLoanToValueRatio, Value: "75", Description: "Максимальное отношение займа к оценке залога (%)"},
	{Key: models.SettingPenaltyRate, Value: "2", Description: "Штрафная ставка при просрочке (%)"},
	{Key: models.SettingYellowZoneThreshold, Value: "80", Description: "Порог LTV для желтой зоны (%)"},
	{Key: models.SettingRedZoneThreshold, Value: "90", Description: "Порог LTV для красной зоны (%)"},
	{Key: models.SettingOverdueDaysRed, Value: "15", Description: "Дней просрочки для красной зоны"},
}

// Seed создает администратора, филиал по умолчанию и настройки,
// если их еще нет в базе
func Seed(db *gorm.DB) error {
	// Создаем администратора
	var adminCount int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &models.User{
			Username: "admin",
			Email:    "admin@goldloan.local",
			Password: string(hashed),
			Name:     "Administrator",
			Role:     models.RoleAdmin,
			Status:   models.UserStatusActive,
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		log.Println("Создан администратор по умолчанию")
	}

	// Создаем филиал по умолчанию
	var branchCount int64
	if err := db.Model(&models.Branch{}).Count(&branchCount).Error; err != nil {
		return err
	}
	if branchCount == 0 {
		branch := &models.Branch{
			Name:    "Main Branch",
			Address: "Default Branch Address",
			Status:  "ACTIVE",
		}
		if err := db.Create(branch).Error; err != nil {
			return err
		}
		log.Println("Создан филиал по умолчанию")
	}

	// Создаем настройки по умолчанию
	for _, setting := range defaultSettings {
		var count int64
		if err := db.Model(&models.Setting{}).Where("key = ?", setting.Key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			s := setting
			if err := db.Create(&s).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
