package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/web3guy0/stakebot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// STORE - Queryable wager history (sqlite or postgres)
// ═══════════════════════════════════════════════════════════════════════════════

type Store struct {
	db *gorm.DB
}

// WagerRecord is the persisted form of a wager. Rows are append-only and
// never updated.
type WagerRecord struct {
	ID            string          `gorm:"primaryKey"`
	Strategy      string          `gorm:"index"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2)"`
	Rationale     string
	Risk          string
	PctBank       float64
	EV            decimal.Decimal `gorm:"type:decimal(20,4)"`
	KellyF        float64
	Odds          string
	BalanceBefore decimal.Decimal `gorm:"type:decimal(20,2)"`
	Rejected      bool
	Timestamp     time.Time `gorm:"index"`
	CreatedAt     time.Time
}

// Open connects to the wager store. A postgres:// DSN selects PostgreSQL;
// anything else is treated as a sqlite file path.
func Open(dsn string) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	} else {
		if dir := filepath.Dir(dsn); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create store dir: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open wager store: %w", err)
	}

	if err := db.AutoMigrate(&WagerRecord{}); err != nil {
		return nil, fmt.Errorf("migrate wager store: %w", err)
	}

	log.Info().Str("dsn", dsn).Msg("💾 Wager store connected")
	return &Store{db: db}, nil
}

// Append persists one wager.
func (s *Store) Append(w types.Wager) error {
	rec := WagerRecord{
		ID:            w.ID,
		Strategy:      w.Strategy,
		Amount:        w.Amount,
		Rationale:     w.Rationale,
		Risk:          w.Risk,
		PctBank:       w.PctBank,
		EV:            w.EV,
		KellyF:        w.KellyF,
		Odds:          w.Odds,
		BalanceBefore: w.BalanceBefore,
		Rejected:      w.Rejected,
		Timestamp:     w.Timestamp,
	}
	return s.db.Create(&rec).Error
}

// Recent returns the most recent wagers, newest first.
func (s *Store) Recent(limit int) ([]WagerRecord, error) {
	var recs []WagerRecord
	err := s.db.Order("timestamp desc").Limit(limit).Find(&recs).Error
	return recs, err
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
