package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyDB struct {
	failures int
	calls    int
}

func (f *flakyDB) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitForDatabase(t *testing.T) {
	retry := pingRetry{attempts: 3, initial: time.Millisecond, max: 2 * time.Millisecond}

	tests := []struct {
		name      string
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"answers at once", 0, 1, false},
		{"answers after retries", 2, 3, false},
		{"gives up", 5, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &flakyDB{failures: tt.failures}
			err := waitForDatabase(context.Background(), db, clock.New(), retry, logger.Nop{})

			assert.Equal(t, tt.wantCalls, db.calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "after 3 attempts")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWaitForDatabase_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db := &flakyDB{failures: 10}
	err := waitForDatabase(ctx, db, clock.NewMock(), pingRetry{attempts: 5, initial: time.Hour, max: time.Hour}, logger.Nop{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, db.calls)
}
