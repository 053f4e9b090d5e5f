package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_RunsAndCollectsErrors(t *testing.T) {
	m := NewManager(4)
	boom := errors.New("boom")

	var ran atomic.Int32
	for i := range 4 {
		accepted := m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			if i == 0 {
				return boom
			}
			return nil
		})
		assert.True(t, accepted)
	}

	err := m.Wait()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(4), ran.Load())
}

func TestManager_DropsWhenFull(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})

	assert.True(t, m.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	}))
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

	close(release)
	assert.NoError(t, m.Wait())
}

func TestManager_ClosedAndPanics(t *testing.T) {
	m := NewManager(2)
	m.Go(context.Background(), func(context.Context) error { panic("oops") })

	assert.ErrorIs(t, m.Wait(), ErrPanic)
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
}

func TestManager_DetachesCancellation(t *testing.T) {
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	m.Go(ctx, func(taskCtx context.Context) error {
		seen = taskCtx.Err()
		return nil
	})

	assert.NoError(t, m.Wait())
	assert.NoError(t, seen)
}

func TestManager_Nil(t *testing.T) {
	var m *Manager
	assert.False(t, m.Go(context.Background(), nil))
	assert.NoError(t, m.Wait())
}
