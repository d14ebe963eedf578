package idemrepo

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/idempotency"
	"ordering/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormIdempotencyRepository implements IdempotencyRepository using GORM.
// Requires the connection to be opened with TranslateError, so a duplicate
// key insert surfaces as gorm.ErrDuplicatedKey.
type GormIdempotencyRepository struct {
	db *gorm.DB
}

// NewGormIdempotencyRepository creates a new GORM idempotency repository.
func NewGormIdempotencyRepository(db *gorm.DB) *GormIdempotencyRepository {
	return &GormIdempotencyRepository{db: db}
}

// Claim atomically registers the record under its key. The insert wins when
// the key is free. On a duplicate, a failed or expired holder is retaken
// with a conditional update; a live holder is returned for the caller to
// replay or reject. Exactly one of any set of concurrent claimants wins.
func (r *GormIdempotencyRepository) Claim(
	ctx context.Context, record *idempotency.Record,
) (*idempotency.Record, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	dto := fromDomain(record)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	retaken, err := r.retake(ctx, dto)
	if err != nil {
		return nil, err
	}
	if retaken {
		return nil, nil
	}

	holder, err := r.Get(ctx, record.Key())
	if err != nil {
		// The holder vanished between the duplicate and the read, likely
		// purged. Treat as a lost claim; the caller retries.
		return nil, err
	}

	return holder, nil
}

// retake overwrites a failed or expired holder in one conditional update.
// The predicate makes the takeover atomic: of several claimants racing for
// a retakeable record, only one update matches.
func (r *GormIdempotencyRepository) retake(ctx context.Context, dto RecordDTO) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE idempotency_records
		SET status = ?, result_ref = ?, created_at = ?, expires_at = ?
		WHERE key = ? AND (status = ? OR expires_at <= ?)
	`,
		dto.Status, dto.ResultRef, dto.CreatedAt, dto.ExpiresAt,
		dto.Key, int(idempotency.StatusFailed), dto.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Update persists the record's current state.
func (r *GormIdempotencyRepository) Update(ctx context.Context, record *idempotency.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).Model(&RecordDTO{}).Where("key = ?", dto.Key).Updates(map[string]any{
		"status":     dto.Status,
		"result_ref": dto.ResultRef,
		"expires_at": dto.ExpiresAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("idempotency record", record.Key())
	}

	return nil
}

// Get retrieves the record for a key.
func (r *GormIdempotencyRepository) Get(ctx context.Context, key string) (*idempotency.Record, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}

	var dto RecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("idempotency record", key)
		}
		return nil, err
	}

	return toDomain(dto)
}

// DeleteExpired removes records whose retention window ended before the
// given time and reports how many were removed.
func (r *GormIdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", before).Delete(&RecordDTO{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
