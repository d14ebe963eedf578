// Package idempotency implements the idempotency guard's domain model.
// A Record maps a caller-supplied key to the outcome of a mutating operation
// so that repeated submissions of the same key produce exactly one effective
// execution. Records are created at the start of an operation and finalized
// at its end, success or failure, never standalone.
package idempotency

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/pkg/errs"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record instance was not
	// created through the NewRecord or RestoreRecord factory methods.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord constructor")

	// ErrOperationInProgress is the sentinel error raised when a request
	// bears the key of an operation that is still executing. It is transient:
	// the caller should retry later with the same key, not resubmit a new one.
	ErrOperationInProgress = errors.New("operation is already in progress")

	// ErrRecordIsFinalized is returned when finalizing a record that is no
	// longer in progress.
	ErrRecordIsFinalized = errors.New("record is already finalized")
)

// OperationInProgressError reports a duplicate request racing a live
// operation, naming the contended key.
type OperationInProgressError struct {
	Key string
}

// NewOperationInProgressError creates an OperationInProgressError for the given key.
func NewOperationInProgressError(key string) *OperationInProgressError {
	return &OperationInProgressError{Key: key}
}

func (e *OperationInProgressError) Error() string {
	return fmt.Sprintf("%s: key %q", ErrOperationInProgress, e.Key)
}

func (e *OperationInProgressError) Unwrap() error {
	return ErrOperationInProgress
}

// RecordStatus is the lifecycle state of an idempotency record.
type RecordStatus int

const (
	// StatusUnknown represents an invalid or undefined record status.
	StatusUnknown RecordStatus = iota

	// StatusInProgress marks an operation that has started but not finished.
	StatusInProgress

	// StatusCompleted marks an operation that finished successfully;
	// the record's result reference points at the produced entity.
	StatusCompleted

	// StatusFailed marks an operation that finished with a definitive
	// failure; the key may be claimed again.
	StatusFailed
)

// String returns the wire name of the record status.
func (s RecordStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Validate checks if the RecordStatus value is valid.
func (s RecordStatus) Validate() error {
	switch s {
	case StatusInProgress, StatusCompleted, StatusFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("recordStatus",
			fmt.Errorf("%d is not a valid record status", s))
	}
}

// Record maps an idempotency key to the outcome of a mutating operation.
//
// At most one record exists per key. While the record is in progress or after
// it completed, the operation's side effects must never re-execute; a failed
// record releases the key for another attempt. Expiry is advisory retention
// housekeeping, not a correctness requirement.
type Record struct {
	key       string
	status    RecordStatus
	resultRef string
	createdAt time.Time
	expiresAt time.Time

	isConstructed bool
}

// NewRecord creates an in-progress record claiming the given key.
//
// Parameters:
//   - key: scoped idempotency key, e.g. "create-order:<caller key>"
//   - now: claim timestamp
//   - retention: how long the record is kept before it may be purged
func NewRecord(key string, now time.Time, retention time.Duration) (*Record, error) {
	record := &Record{isConstructed: true}

	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}
	if retention <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("retention",
			fmt.Errorf("%s is not a positive duration", retention))
	}

	record.key = key
	record.status = StatusInProgress
	record.createdAt = now
	record.expiresAt = now.Add(retention)

	return record, nil
}

// RestoreRecord reconstructs a record from persistence.
// Intended for repository implementations only.
func RestoreRecord(
	key string,
	status RecordStatus,
	resultRef string,
	createdAt time.Time,
	expiresAt time.Time,
) (*Record, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if createdAt.IsZero() || expiresAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("timestamps")
	}

	return &Record{
		key:           key,
		status:        status,
		resultRef:     resultRef,
		createdAt:     createdAt,
		expiresAt:     expiresAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Record was created via a factory method.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// Key returns the scoped idempotency key.
func (r *Record) Key() string {
	return r.key
}

// Status returns the record's lifecycle state.
func (r *Record) Status() RecordStatus {
	return r.status
}

// ResultRef returns the reference to the entity the operation produced,
// set when the record completes (e.g., the created order's id).
func (r *Record) ResultRef() string {
	return r.resultRef
}

// CreatedAt returns when the key was claimed.
func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

// ExpiresAt returns when the record becomes eligible for purging.
func (r *Record) ExpiresAt() time.Time {
	return r.expiresAt
}

// IsExpired reports whether the record's retention window has passed.
func (r *Record) IsExpired(now time.Time) bool {
	return !now.Before(r.expiresAt)
}

// Complete finalizes the record as successful, storing a reference to the
// produced entity. Only an in-progress record can be completed.
func (r *Record) Complete(resultRef string) error {
	if r.status != StatusInProgress {
		return ErrRecordIsFinalized
	}
	if resultRef == "" {
		return errs.NewValueIsRequiredError("resultRef")
	}

	r.status = StatusCompleted
	r.resultRef = resultRef
	return nil
}

// Fail finalizes the record as failed, releasing the key for another
// attempt. Only an in-progress record can be failed.
func (r *Record) Fail() error {
	if r.status != StatusInProgress {
		return ErrRecordIsFinalized
	}

	r.status = StatusFailed
	return nil
}
