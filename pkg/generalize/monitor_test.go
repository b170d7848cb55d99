package generalize

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitor(t *testing.T) {
	t.Run("nil monitor records nothing", func(t *testing.T) {
		var m *Monitor
		m.record(func(s *Stats) { s.Trivial++ })
		m.recordQueue(10)
		m.Reset()
		assert.Equal(t, Stats{}, m.GetStats())
	})

	t.Run("concurrent records", func(t *testing.T) {
		m := NewMonitor()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				m.record(func(s *Stats) { s.Solutions++ })
				m.recordQueue(n)
			}(i)
		}
		wg.Wait()
		stats := m.GetStats()
		assert.Equal(t, 8, stats.Solutions)
		assert.Equal(t, 7, stats.MaxQueue)
	})
}
