package download

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_ReleaseIsIdempotent(t *testing.T) {
	c := NewController(1)

	release, err := c.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.InFlight())

	release()
	release()
	assert.Equal(t, 0, c.InFlight())

	// A double release must not have freed a second permit.
	first, err := c.Acquire(context.Background())
	require.NoError(t, err)
	defer first()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestController_MinimumSize(t *testing.T) {
	assert.Equal(t, 1, NewController(0).Size())
	assert.Equal(t, 4, NewController(4).Size())
}
