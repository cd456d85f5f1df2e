package postgres

import (
	"testing"

	"stockvue/config"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestURL(t *testing.T) {
	cfg := config.Database{Host: "db", Port: 5432, User: "vue", Password: "secret", DBName: "stockvue", SSLMode: "disable"}
	assert.Equal(t, "postgres://vue:secret@db:5432/stockvue?sslmode=disable", URL(cfg))
}

func TestDSN_TimeZone(t *testing.T) {
	cfg := config.Database{Host: "db", Port: 5432, User: "vue", DBName: "stockvue", SSLMode: "require", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=vue password= dbname=stockvue port=5432 sslmode=require TimeZone=UTC", dsn(cfg))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, gormLogLevel("Silent"))
	assert.Equal(t, gormlogger.Info, gormLogLevel("Info"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel(""))
}
