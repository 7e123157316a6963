package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/webtga/superstrong/internal/client/api"
)

func serverErrorText(srvErr *api.ServerError) string {
	if srvErr.Message != "" {
		return srvErr.Message
	}
	return srvErr.Body
}

func (c *Cli) Run(ctx context.Context, command string, args []string) {
	var err error

	switch command {
	case "login":
		err = c.runLogin(ctx, args)
	case "logout":
		err = c.runLogout(ctx)
	case "status":
		err = c.runStatus(ctx)
	case "sync":
		err = c.runSync(ctx)
	case "categories":
		err = c.runCategories(ctx)
	case "exercises":
		err = c.runExercises(ctx, args)
	case "exercise":
		err = c.runExercise(ctx, args)
	case "search":
		err = c.runSearch(ctx, args)
	case "track":
		err = c.runTrack(ctx, args)
	case "stats":
		err = c.runStats(ctx, args)
	case "logs":
		err = c.runLogs(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		PrintUsage()
		os.Exit(1)
	}

	if err != nil {
		// Отказ сервера показываем как ответ сервера, а не сбой клиента
		if srvErr, ok := api.IsServerError(err); ok {
			fmt.Fprintf(os.Stderr, "Server rejected the request (HTTP %d): %s\n", srvErr.Status, serverErrorText(srvErr))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
