package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingCore holds each tick until released.
type blockingCore struct {
	entered chan struct{}
	release chan struct{}
	n       int64
}

func (b *blockingCore) Tick() Snapshot {
	b.entered <- struct{}{}
	<-b.release
	b.n++
	return Snapshot{Tick: b.n}
}

func TestClockStep(t *testing.T) {
	c, _ := newQuietController(t, DefaultTuning())
	k := NewClock(c)

	snap, ok := k.Step()
	require.True(t, ok)
	assert.Equal(t, int64(1), snap.Tick)
	assert.Equal(t, int64(1), k.Ticks())
	assert.Equal(t, int64(0), k.Skipped())
}

func TestClockSkipsOverlappingTick(t *testing.T) {
	core := &blockingCore{entered: make(chan struct{}), release: make(chan struct{})}
	k := NewClock(core)

	done := make(chan Snapshot)
	go func() {
		snap, _ := k.Step()
		done <- snap
	}()
	<-core.entered

	_, ok := k.Step()
	assert.False(t, ok, "overlapping tick must be skipped")
	assert.Equal(t, int64(1), k.Skipped())

	close(core.release)
	select {
	case snap := <-done:
		assert.Equal(t, int64(1), snap.Tick)
	case <-time.After(time.Second):
		t.Fatal("first tick never finished")
	}
	assert.Equal(t, int64(1), k.Ticks())

	// The skipped tick was dropped, not queued.
	go func() { <-core.entered }()
	snap, ok := k.Step()
	require.True(t, ok)
	assert.Equal(t, int64(2), snap.Tick)
}

func TestClockSkip(t *testing.T) {
	k := NewClock(&blockingCore{})
	k.Skip()
	k.Skip()
	assert.Equal(t, int64(2), k.Skipped())
	assert.Equal(t, int64(0), k.Ticks())
}
