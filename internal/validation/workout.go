package validation

import (
	"fmt"
	"time"

	"github.com/webtga/superstrong/internal/models"
)

const maxSetsPerExercise = 50

// ValidateDateKey проверяет, что ключ дня имеет формат YYYY-MM-DD
// и является реальной календарной датой
func ValidateDateKey(dateKey string) error {
	if dateKey == "" {
		return fmt.Errorf("date cannot be empty")
	}

	if _, err := time.Parse("2006-01-02", dateKey); err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}

	return nil
}

// ValidateWorkout проверяет список упражнений перед отправкой:
// хотя бы одно упражнение, у каждого — ID и хотя бы один подход,
// в каждом подходе reps > 0 и weight >= 0
func ValidateWorkout(exercises []models.ExerciseSets) error {
	if len(exercises) == 0 {
		return fmt.Errorf("workout must contain at least one exercise")
	}

	for i, exercise := range exercises {
		if exercise.ExerciseID == "" {
			return fmt.Errorf("exercise %d: id cannot be empty", i+1)
		}
		if len(exercise.Sets) == 0 {
			return fmt.Errorf("exercise %q: must contain at least one set", exercise.ExerciseID)
		}
		if len(exercise.Sets) > maxSetsPerExercise {
			return fmt.Errorf("exercise %q: too many sets (max %d)", exercise.ExerciseID, maxSetsPerExercise)
		}
		for j, set := range exercise.Sets {
			if set.Reps <= 0 {
				return fmt.Errorf("exercise %q set %d: reps must be positive", exercise.ExerciseID, j+1)
			}
			if set.Weight < 0 {
				return fmt.Errorf("exercise %q set %d: weight cannot be negative", exercise.ExerciseID, j+1)
			}
		}
	}

	return nil
}
