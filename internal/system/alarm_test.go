package system

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlarm(t *testing.T) {
	tests := []struct {
		name   string
		testFn func(t *testing.T, hw *fakeHardware, m *Manager)
	}{
		{
			name: "fires in time order once due",
			testFn: func(t *testing.T, hw *fakeHardware, m *Manager) {
				var fired []string
				record := func(name string) func() error {
					return func() error {
						fired = append(fired, name)
						return nil
					}
				}
				m.SetAlarm(time.Unix(5, 0), record("late"))
				m.SetAlarm(time.Unix(2, 0), record("early"))
				m.SetAlarm(time.Unix(5, 0), record("late2"))
				assert.Equal(t, 3, m.Alarms())

				hw.advance(2 * time.Second)
				require.NoError(t, m.Tick())
				assert.Equal(t, []string{"early"}, fired)

				hw.advance(3 * time.Second)
				require.NoError(t, m.Tick())
				assert.Equal(t, []string{"early", "late", "late2"}, fired)
				assert.Equal(t, 0, m.Alarms())
			},
		},
		{
			name: "cancelled alarm never fires",
			testFn: func(t *testing.T, hw *fakeHardware, m *Manager) {
				fired := false
				id := m.SetAlarm(time.Unix(1, 0), func() error {
					fired = true
					return nil
				})
				assert.True(t, m.CancelAlarm(id))
				assert.False(t, m.CancelAlarm(id))

				hw.advance(2 * time.Second)
				require.NoError(t, m.Tick())
				assert.False(t, fired)
			},
		},
		{
			name: "fires while asleep and may wake the device",
			testFn: func(t *testing.T, hw *fakeHardware, m *Manager) {
				require.NoError(t, m.Sleep())
				require.False(t, m.Awake())

				m.SetAlarm(time.Unix(10, 0), m.Wake)
				hw.advance(10 * time.Second)
				require.NoError(t, m.Tick())

				assert.True(t, m.Awake())
				assert.True(t, hw.displayOn)
				assert.Equal(t, 2, hw.backlight)
			},
		},
		{
			name: "action error is returned",
			testFn: func(t *testing.T, hw *fakeHardware, m *Manager) {
				boom := errors.New("boom")
				m.SetAlarm(time.Unix(0, 0), func() error { return boom })

				assert.ErrorIs(t, m.Tick(), boom)
				assert.Equal(t, 0, m.Alarms())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := newFakeHardware()
			m := newTestManager(t, hw, newFakeApp("Home"))
			tt.testFn(t, hw, m)
		})
	}
}
