package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/webtga/superstrong/internal/client/auth"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")

	// Без идентичности повтор не имеет смысла: сервер не примет записи
	if _, err := c.authService.Resolve(ctx); err != nil {
		if errors.Is(err, auth.ErrNoIdentity) {
			return fmt.Errorf("not logged in. Run 'superstrong login' first")
		}
		return fmt.Errorf("failed to resolve identity: %w", err)
	}

	result, err := c.syncService.Drain(ctx)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	if result.Synced == 0 && result.Failed == 0 {
		c.io.Println("Nothing to sync.")
		return nil
	}

	c.io.Printf("Replayed: %d request(s)\n", result.Synced)
	if result.Failed > 0 {
		c.io.Printf("⚠️  Still pending: %d request(s)\n", result.Failed)
		c.io.Println("They will be retried on the next sync.")
		return nil
	}

	c.io.Println("✓ All pending writes delivered to the server.")
	return nil
}
