package models

import "time"

// Set представляет один подход: повторы и вес
type Set struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// ExerciseSets представляет упражнение с выполненными подходами
type ExerciseSets struct {
	ExerciseID string `json:"exercise_id"`
	Name       string `json:"name,omitempty"`
	Sets       []Set  `json:"sets"`
}

// WorkoutSession представляет тренировочную сессию в рамках одного дня
type WorkoutSession struct {
	StartedAt     time.Time `json:"started_at"`
	ID            string    `json:"id"`
	Date          string    `json:"date"` // ISO дата YYYY-MM-DD
	ExerciseCount int       `json:"exercise_count"`
}

// WorkoutSummary представляет суммарную сводку за один календарный день.
// Запись с TotalSets == 0 не существует: "нет тренировки" = отсутствие ключа.
type WorkoutSummary struct {
	UpdatedAt   time.Time `json:"updated_at"`
	TotalSets   int       `json:"total_sets"`
	TotalWeight float64   `json:"total_weight"`
}

// ProfileStats представляет производную статистику профиля.
// Никогда не персистится: пересчитывается из журнала WorkoutSummary.
type ProfileStats struct {
	FirstWorkoutDate      string  `json:"first_workout_date,omitempty"`
	TotalSets             int     `json:"total_sets"`
	TotalWeight           float64 `json:"total_weight"`
	WorkoutsCompleted     int     `json:"workouts_completed"`
	DaysSinceFirstWorkout int     `json:"days_since_first_workout"`
	DaysSinceUserCreation int     `json:"days_since_user_creation"`
}
