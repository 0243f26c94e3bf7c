package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lourensdv/boekrak/internal/config"
)

func TestExportSyncScheduler_StartStop(t *testing.T) {
	t.Run("does nothing when disabled", func(t *testing.T) {
		s := NewExportSyncScheduler(nil, config.ExportSync{Enabled: false})

		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRunTime())
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		s := NewExportSyncScheduler(nil, config.ExportSync{
			Enabled:  true,
			Schedule: "not a schedule",
		})

		assert.Error(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})

	t.Run("runs until stopped", func(t *testing.T) {
		s := NewExportSyncScheduler(nil, config.ExportSync{
			Enabled:  true,
			Schedule: "0 6 * * *",
		})

		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())
		require.NotNil(t, s.NextRunTime())

		s.Stop()
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRunTime())

		// Stopping again is a no-op.
		s.Stop()
		assert.False(t, s.IsRunning())
	})

	t.Run("stops when the parent context is cancelled", func(t *testing.T) {
		s := NewExportSyncScheduler(nil, config.ExportSync{
			Enabled:  true,
			Schedule: "0 6 * * *",
		})

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, s.Start(ctx))
		require.True(t, s.IsRunning())

		cancel()
		assert.Eventually(t, func() bool {
			return !s.IsRunning()
		}, 2*time.Second, 10*time.Millisecond)
	})
}
