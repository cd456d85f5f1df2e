package repository

import (
	"context"
	"errors"
	"fmt"

	"stockvue/internal/model"
	"stockvue/pkg/kvstore"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvRecordRepository stores collections in the kv_records postgres table.
type kvRecordRepository struct {
	db *gorm.DB
}

var _ kvstore.Store = (*kvRecordRepository)(nil)

// NewKVRecordRepository returns a kvstore.Store on top of db. Closing it is
// a no-op; the connection pool belongs to the caller.
func NewKVRecordRepository(db *gorm.DB) kvstore.Store {
	return &kvRecordRepository{db: db}
}

func (r *kvRecordRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var record model.KVRecord
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find kv record %s: %w", key, err)
	}
	return []byte(record.Value), true, nil
}

func (r *kvRecordRepository) Put(ctx context.Context, key string, value []byte) error {
	record := model.KVRecord{Key: key, Value: datatypes.JSON(value)}
	if err := upsert(r.db.WithContext(ctx), &record).Error; err != nil {
		return fmt.Errorf("upsert kv record %s: %w", key, err)
	}
	return nil
}

// upsert replaces value and updated_at of an existing key.
func upsert(tx *gorm.DB, record *model.KVRecord) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(record)
}

func (r *kvRecordRepository) Close() error {
	return nil
}
