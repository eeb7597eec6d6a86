package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionLimiter(t *testing.T) {
	l := NewConnectionLimiter(2)

	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
	assert.Equal(t, 2, l.InUse())

	l.Release()
	assert.True(t, l.TryAcquire())

	l.Release()
	l.Release()
	l.Release()
	assert.Equal(t, 0, l.InUse())
}

func TestConnectionLimiter_Unlimited(t *testing.T) {
	l := NewConnectionLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.TryAcquire())
	}
	l.Release()
	assert.Equal(t, 0, l.InUse())
}
