package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/workflow"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// InitDatabase opens the main connection (MySQL or PostgreSQL), creating the
// database first when it does not exist.
func InitDatabase(cfg *config.DatabaseConfig) error {
	var err error
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres", "postgresql":
		if err := createPostgresDatabase(cfg); err != nil {
			return fmt.Errorf("failed to create PostgreSQL database: %w", err)
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)
		dialector = postgres.Open(dsn)
	case "mysql", "":
		if err := createMySQLDatabase(cfg); err != nil {
			return fmt.Errorf("failed to create MySQL database: %w", err)
		}
		dialector = mysql.Open(cfg.DSN())
	default:
		return fmt.Errorf("unsupported database driver: %s (supported: mysql, postgres)", cfg.Driver)
	}

	logger.Infof("Connecting to %s database...", cfg.Driver)

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 100
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)

	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 3600
	}
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	logger.Infof("Database connection pool configured: MaxOpenConns=%d, MaxIdleConns=%d, ConnMaxLifetime=%ds",
		maxOpenConns, maxIdleConns, connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Database connection verified successfully")
	return nil
}

// createMySQLDatabase uses database/sql directly so the bootstrap connection
// never interferes with the GORM pool.
func createMySQLDatabase(cfg *config.DatabaseConfig) error {
	dsnWithoutDB := fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port)

	db, err := sql.Open("mysql", dsnWithoutDB)
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL server: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping MySQL server: %w", err)
	}

	createDBSQL := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", cfg.DBName)
	if _, err := db.Exec(createDBSQL); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	logger.Infof("Database '%s' created or already exists", cfg.DBName)
	return nil
}

func createPostgresDatabase(cfg *config.DatabaseConfig) error {
	dsnPostgres := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password)

	db, err := sql.Open("postgres", dsnPostgres)
	if err != nil {
		dsnTemplate1 := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=template1 sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password)
		db, err = sql.Open("postgres", dsnTemplate1)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL server: %w", err)
		}
	}
	defer db.Close()

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL server: %w", err)
	}

	var count int64
	checkSQL := "SELECT COUNT(*) FROM pg_database WHERE datname = $1"
	if err := db.QueryRow(checkSQL, cfg.DBName).Scan(&count); err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}

	if count == 0 {
		createDBSQL := fmt.Sprintf("CREATE DATABASE %s", cfg.DBName)
		if _, err := db.Exec(createDBSQL); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		logger.Infof("Database '%s' created successfully", cfg.DBName)
	} else {
		logger.Infof("Database '%s' already exists", cfg.DBName)
	}

	return nil
}

// CheckTableExists reports whether a table is already present.
func CheckTableExists(tableName string) (bool, error) {
	if DB == nil {
		return false, fmt.Errorf("database connection is not initialized")
	}

	var count int64
	var err error

	if DB.Dialector.Name() == "postgres" {
		err = DB.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?", tableName).Scan(&count).Error
	} else {
		err = DB.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", tableName).Scan(&count).Error
	}

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// AutoMigrateAll creates missing tables only. Existing tables are left alone
// so a deploy never alters columns behind the DBA's back.
func AutoMigrateAll() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Checking database tables...")

	tables := []interface{}{
		&model.User{},
		&model.Team{},
		&model.TeamMember{},
		&model.Lookup{},
		&model.FormTemplate{},
		&model.FormField{},
		&model.WorkflowTemplate{},
		&model.WorkflowStep{},
		&model.TemplateBinding{},
		&model.PurchaseRequest{},
		&model.FieldValue{},
		&model.AttachmentCategory{},
		&model.Attachment{},
		&model.ApprovalRecord{},
		&model.OperationLog{},
	}

	var tablesToMigrate []interface{}
	for _, table := range tables {
		stmt := &gorm.Statement{DB: DB}
		if err := stmt.Parse(table); err != nil {
			logger.Warnf("Failed to parse table model: %v", err)
			continue
		}
		tableName := stmt.Schema.Table
		exists, err := CheckTableExists(tableName)
		if err != nil {
			logger.Warnf("Failed to check table %s: %v", tableName, err)
			tablesToMigrate = append(tablesToMigrate, table)
			continue
		}
		if !exists {
			logger.Infof("Table %s does not exist, will be created", tableName)
			tablesToMigrate = append(tablesToMigrate, table)
		} else {
			logger.Debugf("Table %s already exists, skipping", tableName)
		}
	}

	if len(tablesToMigrate) == 0 {
		logger.Info("All database tables already exist, no migration needed")
		return nil
	}

	logger.Infof("Starting auto-migration for %d table(s)...", len(tablesToMigrate))
	if err := DB.AutoMigrate(tablesToMigrate...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	logger.Infof("Successfully migrated %d table(s)", len(tablesToMigrate))

	if err := createDefaultData(); err != nil {
		logger.Warnf("Failed to create default data: %v", err)
		// Tables exist; seed data can be loaded manually later.
	}

	return nil
}

func createDefaultData() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Creating default data...")

	if err := createDefaultUser(); err != nil {
		logger.Warnf("Failed to create default user: %v", err)
	}
	if err := createDefaultLookups(); err != nil {
		logger.Warnf("Failed to create default lookups: %v", err)
	}
	if err := createDefaultAttachmentCategories(); err != nil {
		logger.Warnf("Failed to create default attachment categories: %v", err)
	}

	logger.Info("Default data creation completed")
	return nil
}

func createDefaultUser() error {
	var existing model.User
	result := DB.Where("username = ?", "admin").First(&existing)
	if result.Error == nil {
		return nil
	}

	// Password hash for 'admin123': bcrypt cost 10.
	defaultUser := model.User{
		ID:       "00000000-0000-0000-0000-000000000001",
		Username: "admin",
		Password: "$2a$10$j/lQBaOvW9dMo/O13g65qeCwYnxuaZerNcB/eA3IZZXxRp4MbePhG",
		FullName: "System Admin",
		Email:    "admin@prs.local",
		Role:     "admin",
		Status:   "active",
	}

	if err := DB.Create(&defaultUser).Error; err != nil {
		return fmt.Errorf("failed to create default user: %w", err)
	}

	logger.Infof("Created default admin user: admin/admin123")
	return nil
}

// createDefaultLookups seeds the status and purchase-type reference tables.
// Titles are the Persian display strings the clients render as-is.
func createDefaultLookups() error {
	lookups := []model.Lookup{
		{Group: model.LookupGroupPurchaseType, Code: "GOODS", Title: "خرید کالا", SortOrder: 1},
		{Group: model.LookupGroupPurchaseType, Code: "SERVICE", Title: "خرید خدمات", SortOrder: 2},
		{Group: model.LookupGroupPurchaseType, Code: "LICENSE", Title: "خرید لایسنس", SortOrder: 3},
		{Group: model.LookupGroupRole, Code: string(workflow.RoleRequestor), Title: "درخواست‌دهنده", SortOrder: 1},
		{Group: model.LookupGroupRole, Code: string(workflow.RoleApprover), Title: "تاییدکننده", SortOrder: 2},
		{Group: model.LookupGroupRole, Code: string(workflow.RoleFinance), Title: "مالی", SortOrder: 3},
	}
	for i, status := range []workflow.Status{
		workflow.StatusDraft, workflow.StatusSubmitted, workflow.StatusInReview,
		workflow.StatusFinanceReview, workflow.StatusCompleted, workflow.StatusRejected,
		workflow.StatusCancelled,
	} {
		lookups = append(lookups, model.Lookup{
			Group:     model.LookupGroupStatus,
			Code:      string(status),
			Title:     workflow.StatusTitles[status],
			SortOrder: i + 1,
		})
	}

	for _, lookup := range lookups {
		var existing model.Lookup
		result := DB.Where("lookup_group = ? AND code = ?", lookup.Group, lookup.Code).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&lookup).Error; err != nil {
				logger.Warnf("Failed to create lookup %s/%s: %v", lookup.Group, lookup.Code, err)
			}
		}
	}

	logger.Infof("Created default lookups")
	return nil
}

func createDefaultAttachmentCategories() error {
	var count int64
	DB.Model(&model.AttachmentCategory{}).Count(&count)
	if count > 0 {
		return nil
	}

	categories := []model.AttachmentCategory{
		{Name: "پیش‌فاکتور", Required: false, SortOrder: 1},
		{Name: "فاکتور", Required: false, SortOrder: 2},
		{Name: "سایر مدارک", Required: false, SortOrder: 3},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Warnf("Failed to create attachment category %s: %v", category.Name, err)
		}
	}

	logger.Infof("Created %d default attachment categories", len(categories))
	return nil
}
