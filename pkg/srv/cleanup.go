package srv

import "context"

// cleanupService adapts a close function into the Service lifecycle so
// resources are released in the same shutdown pass as real services.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

// NewCleanup wraps fn, typically a Close method, as a shutdown-only Service.
func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}
