package srv

import (
	"context"
	"sync"
)

// cleanupService runs a close func once the other services have stopped.
// Since Run shuts down in reverse order, put it first in the list.
type cleanupService struct {
	once    sync.Once
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		if c.cleanup != nil {
			err = c.cleanup()
		}
	})
	return err
}

func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}
