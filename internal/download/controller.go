package download

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Controller bounds how many fetches are in flight at once.
type Controller struct {
	sem      *semaphore.Weighted
	size     int
	inFlight atomic.Int64
}

// NewController creates a Controller with n permits. n below 1 is treated
// as 1.
func NewController(n int) *Controller {
	if n < 1 {
		n = 1
	}
	return &Controller{sem: semaphore.NewWeighted(int64(n)), size: n}
}

// Acquire blocks until a permit is free or ctx ends. The returned release
// func may be called any number of times; only the first call frees the
// permit.
func (c *Controller) Acquire(ctx context.Context) (release func(), err error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	c.inFlight.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.inFlight.Add(-1)
			c.sem.Release(1)
		})
	}, nil
}

// Size returns the number of permits.
func (c *Controller) Size() int { return c.size }

// InFlight returns the number of permits currently held.
func (c *Controller) InFlight() int { return int(c.inFlight.Load()) }
