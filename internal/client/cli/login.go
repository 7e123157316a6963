package cli

import (
	"context"
	"fmt"
)

// runLogin разрешает идентичность. Порядок источников:
// init data из окружения, username из аргумента, интерактивный ввод.
func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	if raw := c.bridge.InitData(); raw != "" {
		session, err := c.authService.LoginTelegram(ctx, raw)
		if err != nil {
			return fmt.Errorf("telegram login failed: %w", err)
		}
		c.io.Printf("✓ Logged in via Telegram as %s (user %d)\n", session.Username, session.UserID)
		return nil
	}

	username := ""
	if len(args) > 0 {
		username = args[0]
	}

	if username == "" {
		input, err := c.io.ReadInput("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = input
	}

	session, err := c.authService.LoginUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Printf("✓ Logged in as %s (user %d)\n", session.Username, session.UserID)
	return nil
}
