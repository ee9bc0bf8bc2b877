package opt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopped(t *testing.T) {
	stop, err := Stopped(context.Background())
	assert.False(t, stop)
	assert.NoError(t, err)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Millisecond))
	defer cancel()
	stop, err = Stopped(ctx)
	assert.True(t, stop)
	assert.NoError(t, err)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	stop, err = Stopped(ctx)
	assert.True(t, stop)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCause_String(t *testing.T) {
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "timeout", TimedOut.String())
	assert.Equal(t, "unknown", Cause(7).String())
}
