package stockrepo

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM.
//
// Reserve and Restore are single-statement compare-and-swap updates. The
// row-level lock taken by UPDATE serializes concurrent reservations against
// the same item: when two requests race for the last unit, exactly one
// update matches the `available >= ?` predicate.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GORM stock repository.
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Reserve decrements the available quantity for an item, failing with
// stock.InsufficientStockError when the item has less than the requested
// quantity. An item with no stock row is treated as having zero available.
func (r *GormStockRepository) Reserve(ctx context.Context, itemID kernel.UUID, quantity int) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE stock_records
		SET available = available - ?
		WHERE item_id = ? AND available >= ?
	`, quantity, itemID.Bytes(), quantity)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return stock.NewInsufficientStockError(itemID, quantity)
	}

	return nil
}

// Restore increments the available quantity for an item. An item without a
// stock row gets one, so compensation cannot fail on a ledger gap.
func (r *GormStockRepository) Restore(ctx context.Context, itemID kernel.UUID, quantity int) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO stock_records (item_id, available)
		VALUES (?, ?)
		ON CONFLICT (item_id)
		DO UPDATE SET available = stock_records.available + EXCLUDED.available
	`, itemID.Bytes(), quantity).Error
}

// Get retrieves the stock record for an item.
func (r *GormStockRepository) Get(ctx context.Context, itemID kernel.UUID) (*stock.StockRecord, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var dto StockDTO
	if err := r.db.WithContext(ctx).First(&dto, "item_id = ?", itemID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stock record", itemID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Add saves a new stock record to the database.
func (r *GormStockRepository) Add(ctx context.Context, record *stock.StockRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}
