package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"qrtrack/internal/entities"
)

// Open connects through any GORM dialector and migrates the two tables.
// Tests reuse it with an in-memory SQLite dialector.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(&entities.QRCode{}, &entities.ScanEvent{}); err != nil {
		return nil, err
	}

	return gdb, nil
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	return Open(postgres.Open(dsn))
}
