package idempotency_test

import (
	"fmt"
	"testing"
	"time"

	"ordering/internal/core/domain/model/idempotency"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

const testRetention = 24 * time.Hour

func TestRecordStatus(t *testing.T) {
	t.Run("should return correct string for valid statuses", func(t *testing.T) {
		testCases := []struct {
			status   idempotency.RecordStatus
			expected string
		}{
			{idempotency.StatusInProgress, "in_progress"},
			{idempotency.StatusCompleted, "completed"},
			{idempotency.StatusFailed, "failed"},
		}

		for _, tc := range testCases {
			assert.Equal(t, tc.expected, tc.status.String())
		}
	})

	t.Run("should return unknown for invalid statuses", func(t *testing.T) {
		assert.Equal(t, "unknown", idempotency.StatusUnknown.String())
		assert.Equal(t, "unknown", idempotency.RecordStatus(100).String())
	})

	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []idempotency.RecordStatus{
			idempotency.StatusInProgress,
			idempotency.StatusCompleted,
			idempotency.StatusFailed,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject invalid statuses", func(t *testing.T) {
		invalidStatuses := []idempotency.RecordStatus{
			idempotency.StatusUnknown,
			idempotency.RecordStatus(-1),
			idempotency.RecordStatus(4),
		}

		for _, status := range invalidStatuses {
			require.Error(t, status.Validate())
		}
	})
}

func TestNewRecord(t *testing.T) {
	t.Run("should create in-progress record", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)

		require.NoError(t, err)
		assert.Equal(t, "create-order:abc", record.Key())
		assert.Equal(t, idempotency.StatusInProgress, record.Status())
		assert.Empty(t, record.ResultRef())
		assert.Equal(t, testNow(), record.CreatedAt())
		assert.Equal(t, testNow().Add(testRetention), record.ExpiresAt())
		require.NoError(t, record.Validate())
	})

	t.Run("should reject empty key", func(t *testing.T) {
		_, err := idempotency.NewRecord("", testNow(), testRetention)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "key")
	})

	t.Run("should reject zero timestamp", func(t *testing.T) {
		_, err := idempotency.NewRecord("create-order:abc", time.Time{}, testRetention)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "now")
	})

	t.Run("should reject non-positive retention", func(t *testing.T) {
		for _, retention := range []time.Duration{0, -time.Hour} {
			_, err := idempotency.NewRecord("create-order:abc", testNow(), retention)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "retention")
		}
	})
}

func TestRestoreRecord(t *testing.T) {
	t.Run("should restore record from valid state", func(t *testing.T) {
		record, err := idempotency.RestoreRecord(
			"create-order:abc",
			idempotency.StatusCompleted,
			"order-id",
			testNow(),
			testNow().Add(testRetention),
		)

		require.NoError(t, err)
		assert.Equal(t, "create-order:abc", record.Key())
		assert.Equal(t, idempotency.StatusCompleted, record.Status())
		assert.Equal(t, "order-id", record.ResultRef())
	})

	t.Run("should reject empty key", func(t *testing.T) {
		_, err := idempotency.RestoreRecord("", idempotency.StatusCompleted, "ref", testNow(), testNow())

		require.Error(t, err)
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		_, err := idempotency.RestoreRecord("key", idempotency.StatusUnknown, "", testNow(), testNow())

		require.Error(t, err)
	})

	t.Run("should reject zero timestamps", func(t *testing.T) {
		_, err := idempotency.RestoreRecord("key", idempotency.StatusCompleted, "ref", time.Time{}, testNow())
		require.Error(t, err)

		_, err = idempotency.RestoreRecord("key", idempotency.StatusCompleted, "ref", testNow(), time.Time{})
		require.Error(t, err)
	})
}

func TestRecord_Complete(t *testing.T) {
	t.Run("should finalize in-progress record as completed", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)
		require.NoError(t, err)

		err = record.Complete("order-id")

		require.NoError(t, err)
		assert.Equal(t, idempotency.StatusCompleted, record.Status())
		assert.Equal(t, "order-id", record.ResultRef())
	})

	t.Run("should reject empty result reference", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)
		require.NoError(t, err)

		err = record.Complete("")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "resultRef")
		assert.Equal(t, idempotency.StatusInProgress, record.Status())
	})

	t.Run("should reject completing a finalized record", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)
		require.NoError(t, err)
		require.NoError(t, record.Complete("order-id"))

		err = record.Complete("other-id")

		require.ErrorIs(t, err, idempotency.ErrRecordIsFinalized)
		assert.Equal(t, "order-id", record.ResultRef())
	})

	t.Run("should reject completing a failed record", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)
		require.NoError(t, err)
		require.NoError(t, record.Fail())

		err = record.Complete("order-id")

		require.ErrorIs(t, err, idempotency.ErrRecordIsFinalized)
	})
}

func TestRecord_Fail(t *testing.T) {
	t.Run("should finalize in-progress record as failed", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)
		require.NoError(t, err)

		err = record.Fail()

		require.NoError(t, err)
		assert.Equal(t, idempotency.StatusFailed, record.Status())
		assert.Empty(t, record.ResultRef())
	})

	t.Run("should reject failing a finalized record", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)
		require.NoError(t, err)
		require.NoError(t, record.Complete("order-id"))

		err = record.Fail()

		require.ErrorIs(t, err, idempotency.ErrRecordIsFinalized)
		assert.Equal(t, idempotency.StatusCompleted, record.Status())
	})
}

func TestRecord_IsExpired(t *testing.T) {
	t.Run("should report expiry at and after the retention boundary", func(t *testing.T) {
		record, err := idempotency.NewRecord("create-order:abc", testNow(), testRetention)
		require.NoError(t, err)

		assert.False(t, record.IsExpired(testNow()))
		assert.False(t, record.IsExpired(testNow().Add(testRetention-time.Second)))
		assert.True(t, record.IsExpired(testNow().Add(testRetention)))
		assert.True(t, record.IsExpired(testNow().Add(testRetention+time.Hour)))
	})
}

func TestRecord_Validate(t *testing.T) {
	t.Run("should reject directly instantiated record", func(t *testing.T) {
		var record idempotency.Record

		require.ErrorIs(t, record.Validate(), idempotency.ErrRecordIsNotConstructed)
	})

	t.Run("should reject nil record", func(t *testing.T) {
		var record *idempotency.Record

		require.ErrorIs(t, record.Validate(), idempotency.ErrRecordIsNotConstructed)
	})
}

func TestOperationInProgressError(t *testing.T) {
	t.Run("should unwrap to the sentinel and carry the key", func(t *testing.T) {
		err := idempotency.NewOperationInProgressError("create-order:abc")

		require.ErrorIs(t, err, idempotency.ErrOperationInProgress)
		assert.Contains(t, err.Error(), `"create-order:abc"`)
	})
}
