package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/mindbridge-api/internal/config"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.Int("max_open_conns", 10))
	return db, nil
}

// Migrate creates the tables and the constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.CounsellorProfile{},
		&models.AvailabilityRule{},
		&models.Booking{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Two active bookings of one counsellor may never share an instant.
	// Ranges are half-open so back-to-back sessions are allowed.
	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
			) THEN
				ALTER TABLE bookings
				ADD CONSTRAINT bookings_no_overlap
				EXCLUDE USING gist (
					counsellor_id WITH =,
					tstzrange(start_time, end_time, '[)') WITH &&
				)
				WHERE (status IN ('pending', 'confirmed'));
			END IF;
		END
		$$;
	`).Error; err != nil {
		return fmt.Errorf("add booking overlap constraint: %w", err)
	}

	if err := db.Exec(`
		ALTER TABLE bookings
		DROP CONSTRAINT IF EXISTS bookings_valid_range,
		ADD CONSTRAINT bookings_valid_range CHECK (start_time < end_time)
	`).Error; err != nil {
		return fmt.Errorf("add booking range check: %w", err)
	}

	return nil
}
