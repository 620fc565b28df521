package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/sale"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"version conflict", sale.NewConcurrentModificationError("sale-1"), true},
		{"wrapped version conflict", errors.Join(errors.New("save failed"), sale.NewConcurrentModificationError("sale-1")), true},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"mysql lock wait timeout", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{"mysql duplicate key", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"not found", sale.NewSaleNotFoundError("sale-1"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err, cfg))
		})
	}
}

func TestIsRetryableErrorHonorsToggles(t *testing.T) {
	cfg := DefaultConfig
	cfg.RetryOnConcurrentModification = false
	cfg.RetryOnDeadlock = false

	assert.False(t, IsRetryableError(sale.NewConcurrentModificationError("sale-1"), cfg))
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg))
}

func TestExecuteWithRetrySucceedsAfterConflict(t *testing.T) {
	cfg := fastConfig()

	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return sale.NewConcurrentModificationError("sale-1")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetryStopsOnNonRetryable(t *testing.T) {
	cfg := fastConfig()

	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return sale.NewSaleNotFoundError("sale-1")
	})

	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
	assert.Equal(t, 1, attempts, "business errors are not retried")
}

func TestExecuteWithRetryExhaustsAttempts(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 2

	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return sale.NewConcurrentModificationError("sale-1")
	})

	assert.ErrorIs(t, err, sale.ErrConcurrentModification)
	assert.Equal(t, 2, attempts)
}

func TestExecuteWithRetryDisabled(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false

	attempts := 0
	_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return sale.NewConcurrentModificationError("sale-1")
	})

	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetryRespectsContext(t *testing.T) {
	cfg := fastConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteWithRetry(ctx, cfg, func(ctx context.Context) error {
		t.Fatal("must not run with a cancelled context")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, time.Second, ExponentialBackoffWithJitter(10, cfg), "capped at max delay")
}
