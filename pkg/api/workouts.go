package api

import "time"

// SetPayload представляет один подход в формате API
type SetPayload struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// ExercisePayload представляет упражнение с подходами в формате API
type ExercisePayload struct {
	ExerciseID string       `json:"exercise_id"`
	Sets       []SetPayload `json:"sets"`
}

// WorkoutSession представляет тренировочную сессию, как её отдаёт backend
type WorkoutSession struct {
	StartedAt     time.Time `json:"started_at"`
	ID            string    `json:"id"`
	Date          string    `json:"date"` // ISO дата YYYY-MM-DD
	UserID        int64     `json:"user_id"`
	ExerciseCount int       `json:"exercise_count"`
}

// WorkoutExercise представляет упражнение внутри сохранённой сессии
type WorkoutExercise struct {
	ID         string       `json:"id"`
	ExerciseID string       `json:"exercise_id"`
	Name       string       `json:"name"`
	Category   string       `json:"category,omitempty"`
	Sets       []SetPayload `json:"sets"`
}

// CreateWorkoutRequest представляет запрос на сохранение сессии целиком
// (сессия + упражнения + подходы одной операцией)
type CreateWorkoutRequest struct {
	Date      string            `json:"date"`
	StartedAt time.Time         `json:"started_at"`
	Exercises []ExercisePayload `json:"exercises"`
}

// CreateWorkoutResponse представляет ответ на создание сессии
type CreateWorkoutResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// StatusResponse представляет типовой ответ мутирующих запросов
type StatusResponse struct {
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}
