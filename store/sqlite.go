package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockledger/domain"
)

// productRecord is the products table row.
type productRecord struct {
	ID    string          `gorm:"primarykey;size:64"`
	Name  string          `gorm:"size:200;not null"`
	Price decimal.Decimal `gorm:"type:text;not null"`
	Stock int             `gorm:"not null;default:0"`
}

func (productRecord) TableName() string { return "products" }

// saleRecord is the sales table row. Seq preserves ledger order.
type saleRecord struct {
	Seq         int             `gorm:"primarykey;autoIncrement:false"`
	ID          string          `gorm:"uniqueIndex;size:64;not null"`
	ProductID   string          `gorm:"index;size:64;not null"`
	ProductName string          `gorm:"size:200"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:text;not null"`
	Total       decimal.Decimal `gorm:"type:text;not null"`
	Status      string          `gorm:"size:16;not null"`
	Timestamp   time.Time       `gorm:"not null"`
	RefundedAt  *time.Time
}

func (saleRecord) TableName() string { return "sales" }

// SQLiteStore persists snapshots in an embedded SQLite database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// compile-time assertion
var _ domain.Storage = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return NewSQLiteStoreFromDB(db)
}

// NewSQLiteStoreFromDB wraps an existing gorm handle.
func NewSQLiteStoreFromDB(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&productRecord{}, &saleRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Product{ID: r.ID, Name: r.Name, Price: r.Price, Stock: r.Stock})
	}
	slog.Debug("products loaded", "driver", "sqlite", "count", len(out))
	return out, nil
}

// SaveProducts replaces the products table in one transaction.
func (s *SQLiteStore) SaveProducts(ctx context.Context, products []domain.Product) error {
	rows := make([]productRecord, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRecord{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&productRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSales(ctx context.Context) ([]domain.Sale, error) {
	var rows []saleRecord
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	out := make([]domain.Sale, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Sale{
			ID:          r.ID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Total:       r.Total,
			Status:      domain.SaleStatus(r.Status),
			Timestamp:   r.Timestamp,
			RefundedAt:  r.RefundedAt,
		})
	}
	slog.Debug("sales loaded", "driver", "sqlite", "count", len(out))
	return out, nil
}

// SaveSales replaces the sales table in one transaction, keeping ledger order.
func (s *SQLiteStore) SaveSales(ctx context.Context, sales []domain.Sale) error {
	rows := make([]saleRecord, 0, len(sales))
	for i, sale := range sales {
		rows = append(rows, saleRecord{
			Seq:         i + 1,
			ID:          sale.ID,
			ProductID:   sale.ProductID,
			ProductName: sale.ProductName,
			Quantity:    sale.Quantity,
			UnitPrice:   sale.UnitPrice,
			Total:       sale.Total,
			Status:      string(sale.Status),
			Timestamp:   sale.Timestamp,
			RefundedAt:  sale.RefundedAt,
		})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&saleRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save sales: %w", err)
	}
	return nil
}
