package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{
			name: "stays closed on successes",
			opts: Options{
				Probes:   1,
				Window:   time.Minute,
				Cooldown: time.Minute,
			},
			requests:      []bool{true, true, true},
			expectedState: StateClosed,
		},
		{
			name: "opens after consecutive failures",
			opts: Options{
				Probes:    1,
				Window:    time.Minute,
				Cooldown:  time.Minute,
				TripAfter: 3,
			},
			requests:      []bool{false, false, false},
			expectedState: StateOpen,
		},
		{
			name: "failure streak broken by success stays closed",
			opts: Options{
				Probes:    1,
				Window:    time.Minute,
				Cooldown:  time.Minute,
				TripAfter: 3,
			},
			requests:      []bool{false, false, true, false, false},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := New("test", tt.opts)

			for _, success := range tt.requests {
				_ = breaker.Do(func() error {
					if success {
						return nil
					}
					return errors.New("failed")
				})
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	breaker := New("test", Options{
		Probes:   1,
		Window:   time.Minute,
		Cooldown: time.Minute,
	})

	require.NoError(t, breaker.Do(func() error { return nil }))

	counts := breaker.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)
	assert.Equal(t, uint32(0), counts.TotalFailures)

	assert.Error(t, breaker.Do(func() error { return errors.New("failed") }))

	counts = breaker.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestBreakerFailsFastWhenOpen(t *testing.T) {
	breaker := New("test", Options{
		Probes:    1,
		Window:    time.Minute,
		Cooldown:  time.Minute,
		TripAfter: 2,
	})

	for i := 0; i < 2; i++ {
		_ = breaker.Do(func() error { return errors.New("failed") })
	}

	assert.Equal(t, StateOpen, breaker.State())

	// The wrapped call must not run while open
	called := false
	err := breaker.Do(func() error {
		called = true
		return nil
	})
	assert.Equal(t, ErrOpen, err)
	assert.False(t, called)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	breaker := New("test", Options{
		Probes:    2,
		Window:    time.Minute,
		Cooldown:  50 * time.Millisecond,
		TripAfter: 2,
	})

	for i := 0; i < 2; i++ {
		_ = breaker.Do(func() error { return errors.New("failed") })
	}

	assert.Equal(t, StateOpen, breaker.State())

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, StateHalfOpen, breaker.State())

	for i := 0; i < 2; i++ {
		require.NoError(t, breaker.Do(func() error { return nil }))
	}

	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string

	breaker := New("test", Options{
		Probes:    1,
		Window:    time.Minute,
		Cooldown:  10 * time.Millisecond,
		TripAfter: 2,
		OnStateChange: func(name string, from State, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	for i := 0; i < 2; i++ {
		_ = breaker.Do(func() error { return errors.New("failed") })
	}

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, StateHalfOpen, breaker.State())

	assert.Contains(t, transitions, "closed->open")
	assert.Contains(t, transitions, "open->half-open")
}
