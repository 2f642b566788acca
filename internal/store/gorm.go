package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// KVEntry is the single-table KV schema for the postgres backend.
type KVEntry struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement"`
	Key       string         `gorm:"type:varchar(200);not null;uniqueIndex"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;autoUpdateTime;index"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// GormStore backs the KV surface with a postgres table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(dsn string) (*GormStore, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&KVEntry{}); err != nil {
		return nil, err
	}
	return &GormStore{db: gdb}, nil
}

func (g *GormStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var entry KVEntry
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		return nil, false
	}
	return []byte(entry.Value), true
}

func (g *GormStore) Set(ctx context.Context, key string, val []byte) error {
	entry := KVEntry{Key: key, Value: datatypes.JSON(val)}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (g *GormStore) Delete(ctx context.Context, key string) error {
	err := g.db.WithContext(ctx).Where("key = ?", key).Delete(&KVEntry{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
