// Package stockrepo provides data transfer objects and mapping functions for
// the stock ledger. One row per item; the available quantity is mutated only
// through conditional SQL updates so concurrent reservations serialize in the
// database rather than in application code.
package stockrepo

import (
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// StockDTO represents the database structure for one item's stock record.
type StockDTO struct {
	ItemID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Available int
}

// TableName specifies the database table name for stock records.
func (StockDTO) TableName() string {
	return "stock_records"
}

// fromDomain converts a stock record to its database representation.
func fromDomain(record *stock.StockRecord) StockDTO {
	return StockDTO{
		ItemID:    record.ItemID().Bytes(),
		Available: record.Available(),
	}
}

// toDomain converts a database DTO to a stock record.
func toDomain(dto StockDTO) (*stock.StockRecord, error) {
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}

	return stock.RestoreStockRecord(itemID, dto.Available)
}
