// Package idemrepo provides data transfer objects and mapping functions for
// idempotency record persistence. The primary key on the record key is the
// constraint that closes the race between concurrent requests: the insert
// either lands or reports a duplicate, never both.
package idemrepo

import (
	"time"

	"ordering/internal/core/domain/model/idempotency"
)

// RecordDTO represents the database structure for one idempotency record.
type RecordDTO struct {
	Key       string `gorm:"primaryKey"`
	Status    int
	ResultRef string
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for idempotency records.
func (RecordDTO) TableName() string {
	return "idempotency_records"
}

// fromDomain converts an idempotency record to its database representation.
func fromDomain(record *idempotency.Record) RecordDTO {
	return RecordDTO{
		Key:       record.Key(),
		Status:    int(record.Status()),
		ResultRef: record.ResultRef(),
		CreatedAt: record.CreatedAt(),
		ExpiresAt: record.ExpiresAt(),
	}
}

// toDomain converts a database DTO to an idempotency record.
func toDomain(dto RecordDTO) (*idempotency.Record, error) {
	return idempotency.RestoreRecord(
		dto.Key,
		idempotency.RecordStatus(dto.Status),
		dto.ResultRef,
		dto.CreatedAt,
		dto.ExpiresAt,
	)
}
