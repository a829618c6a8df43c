package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/user/streamflix-go/internal/config"
)

// record is the row shape backing the remote tree: one row per path,
// value stored as a JSON document.
type record struct {
	Path      string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:json"`
	UpdatedAt time.Time
}

// TableName returns the table name for record
func (record) TableName() string {
	return "records"
}

// MySQLStore is the remote backend: a hierarchical key-value tree over
// MySQL with push-generated keys and per-path subscriptions.
type MySQLStore struct {
	db *gorm.DB
	*notifier
}

// NewMySQLStore creates a new MySQL store instance
func NewMySQLStore(cfg *config.DBConfig) (*MySQLStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &MySQLStore{db: db}
	s.notifier = newNotifier(snapshotWith(s))
	return s, nil
}

// Get returns the value stored at an exact path
func (s *MySQLStore) Get(ctx context.Context, p string) (json.RawMessage, error) {
	var rec record
	result := s.db.WithContext(ctx).Where("path = ?", p).First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", result.Error)
	}
	return json.RawMessage(rec.Value), nil
}

// Set writes the full value at a path, creating or replacing it
func (s *MySQLStore) Set(ctx context.Context, p string, value json.RawMessage) error {
	rec := record{Path: p, Value: string(value)}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec)
	if result.Error != nil {
		return fmt.Errorf("failed to set record: %w", result.Error)
	}

	s.dispatch(ctx, p)
	return nil
}

// Merge shallow-merges fields into the object stored at a path
func (s *MySQLStore) Merge(ctx context.Context, p string, fields map[string]json.RawMessage) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec record
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("path = ?", p).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		merged, err := mergeRaw(json.RawMessage(rec.Value), fields)
		if err != nil {
			return err
		}

		return tx.Model(&record{}).Where("path = ?", p).
			Updates(map[string]interface{}{"value": string(merged)}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to merge record: %w", err)
	}

	s.dispatch(ctx, p)
	return nil
}

// SetField sets one field of the object stored at a path
func (s *MySQLStore) SetField(ctx context.Context, p string, field string, value json.RawMessage) error {
	if err := s.Merge(ctx, p, map[string]json.RawMessage{field: value}); err != nil {
		return err
	}
	// Field-level subscribers see the write under its own path
	s.dispatch(ctx, p+"/"+field)
	return nil
}

// Delete removes the record at a path and any descendants
func (s *MySQLStore) Delete(ctx context.Context, p string) error {
	result := s.db.WithContext(ctx).
		Where("path = ? OR path LIKE ?", p, p+"/%").
		Delete(&record{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete record: %w", result.Error)
	}

	s.dispatch(ctx, p)
	return nil
}

// List returns the direct children of a path
func (s *MySQLStore) List(ctx context.Context, prefix string) ([]Record, error) {
	var rows []record
	result := s.db.WithContext(ctx).
		Where("path LIKE ? AND path NOT LIKE ?", prefix+"/%", prefix+"/%/%").
		Order("path").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list records: %w", result.Error)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		_, key := parentOf(row.Path)
		records = append(records, Record{
			Key:   key,
			Path:  row.Path,
			Value: json.RawMessage(row.Value),
		})
	}
	return records, nil
}

// Push inserts a value under a collection path with a generated
// time-ordered key and returns that key
func (s *MySQLStore) Push(ctx context.Context, prefix string, hint string, value json.RawMessage) (string, error) {
	key := NewPushKey(time.Now())
	p := prefix + "/" + key

	rec := record{Path: p, Value: string(value)}
	result := s.db.WithContext(ctx).Create(&rec)
	if result.Error != nil {
		return "", fmt.Errorf("failed to push record: %w", result.Error)
	}

	s.dispatch(ctx, p)
	return key, nil
}

// Ping checks database connectivity
func (s *MySQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance (for testing purposes)
func (s *MySQLStore) DB() *gorm.DB {
	return s.db
}

// mergeRaw applies a shallow field merge to a JSON object. A value that
// fails to parse is treated as an empty object rather than an error.
func mergeRaw(raw json.RawMessage, fields map[string]json.RawMessage) (json.RawMessage, error) {
	obj := make(map[string]json.RawMessage)
	if len(raw) > 0 {
		// Malformed stored JSON degrades to an empty object
		_ = json.Unmarshal(raw, &obj)
	}
	for k, v := range fields {
		obj[k] = v
	}
	return json.Marshal(obj)
}
