package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/webtga/superstrong/internal/client/auth"
	"github.com/webtga/superstrong/internal/models"
)

func (c *Cli) runTrack(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand. Usage: superstrong track <show|add|delete>")
	}

	if _, err := c.authService.Resolve(ctx); err != nil {
		if errors.Is(err, auth.ErrNoIdentity) {
			return fmt.Errorf("not logged in. Run 'superstrong login' first")
		}
		return fmt.Errorf("failed to resolve identity: %w", err)
	}

	switch args[0] {
	case "show":
		return c.runTrackShow(ctx, args[1:])
	case "add":
		return c.runTrackAdd(ctx, args[1:])
	case "delete":
		return c.runTrackDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown track subcommand: %s", args[0])
	}
}

func (c *Cli) runTrackShow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing date. Usage: superstrong track show <YYYY-MM-DD>")
	}
	dateKey := args[0]

	sessions, err := c.workoutService.SessionsForDate(ctx, dateKey)
	if err != nil {
		return fmt.Errorf("failed to get workouts: %w", err)
	}

	c.io.Printf("=== Workouts: %s ===\n", dateKey)
	c.io.Println()

	if len(sessions) == 0 {
		c.io.Println("No workouts recorded for this day.")
		return nil
	}

	for _, session := range sessions {
		c.io.Printf("Session %s (started %s, %d exercise(s))\n",
			session.ID, formatDay(session.StartedAt), session.ExerciseCount)

		exercises, err := c.workoutService.SessionExercises(ctx, session.ID)
		if err != nil {
			c.io.Printf("  failed to load exercises: %v\n", err)
			continue
		}

		for _, exercise := range exercises {
			name := exercise.Name
			if name == "" {
				name = exercise.ExerciseID
			}
			c.io.Printf("  %s\n", name)
			for i, set := range exercise.Sets {
				c.io.Printf("    set %d: %d x %.1f kg\n", i+1, set.Reps, set.Weight)
			}
		}
		c.io.Println()
	}

	return nil
}

// runTrackAdd интерактивно собирает сессию: упражнения по ID,
// в каждом построчный ввод подходов
func (c *Cli) runTrackAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing date. Usage: superstrong track add <YYYY-MM-DD>")
	}
	dateKey := args[0]

	c.io.Printf("=== New workout: %s ===\n", dateKey)
	c.io.Println()

	var exercises []models.ExerciseSets
	for {
		id, err := c.io.ReadInput("Exercise id (empty to finish): ")
		if err != nil {
			return fmt.Errorf("failed to read exercise id: %w", err)
		}
		if id == "" {
			break
		}

		name := ""
		if exercise, err := c.catalogService.ExerciseByID(ctx, id); err == nil {
			name = exercise.Name
			c.io.Printf("  %s (%s)\n", exercise.Name, exercise.Category)
		} else {
			c.io.Printf("  warning: exercise not found in catalog: %v\n", err)
		}

		sets, err := c.promptSets()
		if err != nil {
			return fmt.Errorf("failed to read sets: %w", err)
		}
		if len(sets) == 0 {
			c.io.Println("  no sets entered, skipping exercise")
			continue
		}

		exercises = append(exercises, models.ExerciseSets{
			ExerciseID: id,
			Name:       name,
			Sets:       sets,
		})
	}

	result, err := c.workoutService.CreateSession(ctx, dateKey, exercises)
	if err != nil {
		return fmt.Errorf("failed to save workout: %w", err)
	}

	c.io.Println()
	if result.Queued {
		c.io.Println("⚠️  Server unreachable: workout queued locally.")
		c.io.Println("Run 'superstrong sync' when back online.")
	} else {
		c.io.Printf("✓ Workout saved (session %s)\n", result.SessionID)
	}

	return nil
}

func (c *Cli) runTrackDelete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: superstrong track delete <YYYY-MM-DD> <session-id>")
	}
	dateKey, sessionID := args[0], args[1]

	confirmed, err := c.bridge.Confirm(fmt.Sprintf("Delete session %s?", sessionID))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		c.io.Println("Cancelled.")
		return nil
	}

	if err := c.workoutService.DeleteSession(ctx, dateKey, sessionID); err != nil {
		return err
	}

	c.io.Println("✓ Session deleted")
	return nil
}
