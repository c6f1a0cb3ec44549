package storage

import (
	"errors"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ehotels/model"
)

// DB is the shared handle used by the HTTP handlers. Store functions take an
// explicit *gorm.DB so tests can run against their own database.
var DB *gorm.DB

func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	DB = db
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Account{},
		&model.Address{},
		&model.Client{},
		&model.Employee{},
		&model.HotelChain{},
		&model.Hotel{},
		&model.Room{},
		&model.Reservation{},
		&model.Location{},
	)
}

// IsUniqueViolation classifies store errors caused by unique constraints so
// they can be surfaced as an already-exists condition.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
