package cli

import (
	"context"
	"fmt"
)

// runLogout удаляет сессию, кэш ответов и локальный журнал статистики.
// Очередь отложенных записей не трогаем: это чужие для сессии данные,
// они уйдут на сервер при следующем sync.
func (c *Cli) runLogout(ctx context.Context) error {
	confirmed, err := c.bridge.Confirm("Log out and clear local profile data?")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		c.io.Println("Cancelled.")
		return nil
	}

	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if err := c.statsService.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear local stats: %w", err)
	}

	c.io.Println("✓ Logged out")
	return nil
}
