package model

import (
	"time"

	"gorm.io/datatypes"
)

// Keys of the two persisted collections.
const (
	KeyWatchlist        = "selectedStocks"
	KeySavedPredictions = "savedPredictions"
)

// KVRecord holds one whole collection, JSON encoded.
type KVRecord struct {
	Key       string         `gorm:"column:key;type:varchar(100);primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}
