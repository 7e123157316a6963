package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

func (c *Cli) runLogs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand. Usage: superstrong logs <show|export|clear>")
	}

	switch args[0] {
	case "show":
		return c.runLogsShow(ctx)
	case "export":
		return c.runLogsExport(ctx)
	case "clear":
		return c.runLogsClear(ctx)
	default:
		return fmt.Errorf("unknown logs subcommand: %s", args[0])
	}
}

func (c *Cli) runLogsShow(ctx context.Context) error {
	records, err := c.logStore.ListLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read log buffer: %w", err)
	}

	c.io.Println("=== Log Buffer ===")
	c.io.Println()
	if len(records) == 0 {
		c.io.Println("Log buffer is empty.")
		return nil
	}

	for _, record := range records {
		c.io.Printf("%s [%s] %s", record.Timestamp.Format(time.RFC3339), record.Level, record.Message)
		if len(record.Attrs) > 0 {
			keys := make([]string, 0, len(record.Attrs))
			for key := range record.Attrs {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				c.io.Printf(" %s=%s", key, record.Attrs[key])
			}
		}
		c.io.Println()
	}

	return nil
}

// runLogsExport выводит буфер в JSON для передачи в отчет об ошибке
func (c *Cli) runLogsExport(ctx context.Context) error {
	records, err := c.logStore.ListLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read log buffer: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode logs: %w", err)
	}

	if _, err := c.io.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write logs: %w", err)
	}
	return nil
}

func (c *Cli) runLogsClear(ctx context.Context) error {
	if err := c.logStore.ClearLogs(ctx); err != nil {
		return fmt.Errorf("failed to clear log buffer: %w", err)
	}
	c.io.Println("✓ Log buffer cleared")
	return nil
}
