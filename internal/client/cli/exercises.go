package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/webtga/superstrong/internal/models"
)

func (c *Cli) runCategories(ctx context.Context) error {
	categories, err := c.catalogService.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}

	c.io.Println("=== Categories ===")
	c.io.Println()
	if len(categories) == 0 {
		c.io.Println("No categories found.")
		return nil
	}

	for _, category := range categories {
		c.io.Printf("  %s\n", category)
	}
	c.io.Println()
	c.io.Printf("Total: %d\n", len(categories))
	return nil
}

func (c *Cli) runExercises(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("exercises", flag.ContinueOnError)
	category := flags.String("category", "", "filter by category name")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var (
		exercises []models.Exercise
		err       error
	)
	if *category != "" {
		exercises, err = c.catalogService.ExercisesByCategory(ctx, *category)
	} else {
		exercises, err = c.catalogService.Exercises(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to get exercises: %w", err)
	}

	c.io.Println("=== Exercises ===")
	c.io.Println()
	c.printExerciseList(exercises)
	return nil
}

func (c *Cli) runExercise(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing exercise id. Usage: superstrong exercise <id>")
	}

	exercise, err := c.catalogService.ExerciseByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get exercise: %w", err)
	}

	c.io.Printf("=== %s ===\n", exercise.Name)
	c.io.Println()
	c.io.Printf("ID:       %s\n", exercise.ID)
	c.io.Printf("Category: %s\n", exercise.Category)
	if exercise.Description != "" {
		c.io.Printf("\n%s\n", exercise.Description)
	}
	if exercise.Image != nil {
		c.io.Printf("\nImage: %s\n", exercise.Image.URL)
	}

	if len(exercise.Steps) > 0 {
		c.io.Println()
		c.io.Println("Steps:")
		for i, step := range exercise.Steps {
			title := step.Title
			if title == "" {
				title = fmt.Sprintf("Step %d", i+1)
			}
			c.io.Printf("  %d. %s\n", i+1, title)
			if step.Description != "" {
				c.io.Printf("     %s\n", step.Description)
			}
			if step.Image != nil {
				c.io.Printf("     image: %s\n", step.Image.URL)
			}
		}
	}

	return nil
}

func (c *Cli) runSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing query. Usage: superstrong search <query>")
	}

	query := strings.Join(args, " ")
	exercises, err := c.catalogService.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	c.io.Printf("=== Search: %s ===\n", query)
	c.io.Println()
	c.printExerciseList(exercises)
	return nil
}

func (c *Cli) printExerciseList(exercises []models.Exercise) {
	if len(exercises) == 0 {
		c.io.Println("No exercises found.")
		return
	}

	for _, exercise := range exercises {
		c.io.Printf("  [%s] %s (%s)\n", exercise.ID, exercise.Name, exercise.Category)
	}
	c.io.Println()
	c.io.Printf("Total: %d\n", len(exercises))
}
