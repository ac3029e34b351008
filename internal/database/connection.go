// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phantomos/phantomos-backend/internal/config"
	"github.com/phantomos/phantomos-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.Publisher{},
		&models.User{},
		&models.Connector{},
		&models.GameIP{},
		&models.IPAsset{},
		&models.Product{},
		&models.ProductAsset{},
		&models.Sale{},
		&models.AnalyticsSnapshot{},
		&models.AIInsight{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_publisher_role ON users(publisher_id, role)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_publisher_category ON products(publisher_id, category)",
		"CREATE INDEX IF NOT EXISTS idx_products_publisher_mapping ON products(publisher_id, mapping_status)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Sale indexes: the metrics calculator always filters by publisher + date range
		"CREATE INDEX IF NOT EXISTS idx_sales_publisher_order_date ON sales(publisher_id, order_date)",
		"CREATE INDEX IF NOT EXISTS idx_sales_product ON sales(product_id)",

		// IP asset indexes
		"CREATE INDEX IF NOT EXISTS idx_ip_assets_publisher ON ip_assets(publisher_id)",
		"CREATE INDEX IF NOT EXISTS idx_ip_assets_game_ip ON ip_assets(game_ip_id)",

		// Insight indexes: retrieval orders by created_at within a publisher
		"CREATE INDEX IF NOT EXISTS idx_ai_insights_publisher_created ON ai_insights(publisher_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_ai_insights_batch ON ai_insights(batch_id)",

		// Audit log indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_publisher_action ON audit_logs(publisher_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data for local development.
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var publisherCount int64
	db.Model(&models.Publisher{}).Count(&publisherCount)
	if publisherCount > 0 {
		return nil
	}

	publisher := &models.Publisher{
		Name:             "Phantom Interactive",
		Slug:             "phantom-interactive",
		SubscriptionTier: models.TierGrowth,
		Settings:         models.JSONB{"currency": "USD"},
	}
	if err := db.Create(publisher).Error; err != nil {
		return fmt.Errorf("failed to create seed publisher: %w", err)
	}

	owner := &models.User{
		PublisherID: &publisher.ID,
		Email:       "owner@phantom-interactive.test",
		Name:        "Demo Owner",
		Role:        models.RoleOwner,
		Status:      models.UserStatusActive,
	}
	if err := owner.SetPassword("ChangeMe123!"); err != nil {
		return fmt.Errorf("failed to set seed password: %w", err)
	}
	if err := db.Create(owner).Error; err != nil {
		return fmt.Errorf("failed to create seed owner: %w", err)
	}

	gameIP := &models.GameIP{
		PublisherID: publisher.ID,
		Name:        "Phantom Warriors",
		Genre:       "action-rpg",
	}
	if err := db.Create(gameIP).Error; err != nil {
		return fmt.Errorf("failed to create seed game IP: %w", err)
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
