package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// localItem is a row in the local_items table.
type localItem struct {
	Namespace string `gorm:"primaryKey"`
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (localItem) TableName() string {
	return "local_items"
}

// SQLStore keeps values in a SQLite database shared by every namespace.
type SQLStore struct {
	db        *gorm.DB
	namespace string
}

func NewSQLStore(path string, namespace string) (*SQLStore, error) {

	if dir := filepath.Dir(path); len(dir) > 0 {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
	}

	if err := db.AutoMigrate(&localItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite storage: %w", err)
	}

	// The database may hold tokens
	if err := os.Chmod(path, 0600); err != nil {
		logrus.WithError(err).Warnln("Failed to restrict sqlite storage permissions")
	}

	return &SQLStore{
		db:        db,
		namespace: namespace,
	}, nil
}

func (s *SQLStore) Get(key string) (string, bool, error) {
	var item localItem
	err := s.db.Where("namespace = ? AND key = ?", s.namespace, key).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item.Value, true, nil
}

func (s *SQLStore) Set(key string, value string) error {
	item := localItem{
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
}

func (s *SQLStore) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Where("namespace = ? AND key IN ?", s.namespace, keys).Delete(&localItem{}).Error
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
