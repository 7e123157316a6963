package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	status, err := c.authService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}

	if !status.Authenticated {
		c.io.Println("Status: Not logged in")
		c.io.Println()
		c.io.Println("Run 'superstrong login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Logged in")
	c.io.Printf("Username: %s\n", status.Username)
	c.io.Printf("User ID:  %d\n", status.UserID)
	if status.TelegramID != nil {
		c.io.Printf("Telegram: %d\n", *status.TelegramID)
	}

	if status.TokenPresent {
		if !status.TokenExpiresAt.IsZero() {
			c.io.Printf("Token expires: %s\n", status.TokenExpiresAt.Format(time.RFC3339))
		}
		if status.TokenExpired {
			c.io.Println("⚠️  Token has expired. Please login again.")
		}
	} else {
		c.io.Println("Mode: username only (no access token)")
	}

	pendingCount, err := c.syncService.PendingCount(ctx)
	if err != nil {
		c.io.Printf("\nWarning: failed to get pending sync count: %v\n", err)
		return nil
	}

	c.io.Println()
	if pendingCount > 0 {
		c.io.Printf("⚠️  Pending sync: %d request(s) waiting to be replayed\n", pendingCount)
		c.io.Println("Run 'superstrong sync' to push them to the server.")
	} else {
		c.io.Println("✓ All data synchronized with server")
	}

	return nil
}
