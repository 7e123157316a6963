package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/webtga/superstrong/internal/client/auth"
)

func (c *Cli) runStats(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("stats", flag.ContinueOnError)
	recompute := flags.Bool("recompute", false, "rebuild the local log from server data")
	if err := flags.Parse(args); err != nil {
		return err
	}

	userCreatedAt := ""
	session, err := c.authService.Resolve(ctx)
	if err != nil {
		if !errors.Is(err, auth.ErrNoIdentity) {
			return fmt.Errorf("failed to resolve identity: %w", err)
		}
		// Без идентичности статистика все равно считается из локального журнала
	} else if !session.CreatedAt.IsZero() {
		userCreatedAt = session.CreatedAt.Format(time.RFC3339)
	}

	if *recompute {
		c.io.Println("Rebuilding local stats from server data...")
		snapshot, err := c.workoutService.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to collect server data: %w", err)
		}
		if _, err := c.statsService.Recompute(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to recompute stats: %w", err)
		}
		c.io.Println()
	}

	stats, err := c.statsService.Summary(ctx, userCreatedAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	c.io.Println("=== Profile Statistics ===")
	c.io.Println()
	c.io.Printf("Workouts completed: %d\n", stats.WorkoutsCompleted)
	c.io.Printf("Total sets:         %d\n", stats.TotalSets)
	c.io.Printf("Total weight:       %.2f kg\n", stats.TotalWeight)
	if stats.FirstWorkoutDate != "" {
		c.io.Printf("First workout:      %s (%d day(s) ago counting today)\n",
			stats.FirstWorkoutDate, stats.DaysSinceFirstWorkout)
	}
	if stats.DaysSinceUserCreation > 0 {
		c.io.Printf("Days with the app:  %d\n", stats.DaysSinceUserCreation)
	}

	return nil
}
