package composer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSchedulerRunsAndCancels(t *testing.T) {
	s := NewCronScheduler(nil)
	s.Start()
	defer s.Stop()

	var ticks atomic.Int32
	cancel, err := s.Every(time.Second, func() { ticks.Add(1) })
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return ticks.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	after := ticks.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), after+1)
}

func TestCronSchedulerRejectsNonPositiveInterval(t *testing.T) {
	s := NewCronScheduler(nil)

	_, err := s.Every(0, func() {})
	assert.Error(t, err)
}
