// Package ledger remembers which birthdays were already announced on a given
// UTC day, so a second trigger on the same day does not repost.
package ledger

import (
	"context"

	"birthdaybot/bot/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DayLayout = "2006-01-02"

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to database")
	}

	return New(db)
}

// New prepares the announcements table on db.
func New(db *gorm.DB) (*Store, error) {
	if !db.Migrator().HasTable(&models.Announcement{}) {
		if err := db.Migrator().CreateTable(&models.Announcement{}); err != nil {
			return nil, errors.Wrap(err, "create announcements table")
		}
	}

	if !db.Migrator().HasColumn(&models.Announcement{}, "message_id") {
		if err := db.Migrator().AddColumn(&models.Announcement{}, "MessageId"); err != nil {
			return nil, errors.Wrap(err, "add message_id column")
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Announced(ctx context.Context, day, handle string) (bool, error) {
	var announcement models.Announcement

	result := s.db.WithContext(ctx).Where(&models.Announcement{Day: day, Handle: handle}).First(&announcement)

	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return false, nil
	case result.Error != nil:
		return false, errors.Wrap(result.Error, "query announcements")
	default:
		return true, nil
	}
}

func (s *Store) Record(ctx context.Context, announcement models.Announcement) error {
	result := s.db.WithContext(ctx).Create(&announcement)
	if result.Error != nil {
		return errors.Wrap(result.Error, "record announcement")
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
