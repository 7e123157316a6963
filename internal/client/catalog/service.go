package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/webtga/superstrong/internal/models"
	pkgapi "github.com/webtga/superstrong/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Getter — минимальный HTTP контракт, нужный каталогу
type Getter interface {
	Get(ctx context.Context, path string, result any) error
}

// Service определяет интерфейс клиента каталога упражнений
type Service interface {
	// Exercises возвращает все упражнения каталога
	Exercises(ctx context.Context) ([]models.Exercise, error)

	// ExercisesByCategory возвращает упражнения одной категории
	ExercisesByCategory(ctx context.Context, category string) ([]models.Exercise, error)

	// ExerciseByID возвращает одно упражнение с шагами выполнения
	ExerciseByID(ctx context.Context, id string) (*models.Exercise, error)

	// Categories возвращает отсортированные названия категорий
	Categories(ctx context.Context) ([]string, error)

	// Search ищет упражнения по названию
	Search(ctx context.Context, query string) ([]models.Exercise, error)

	// BatchInit загружает упражнения и категории одним запросом
	BatchInit(ctx context.Context) ([]models.Exercise, []string, error)
}

type service struct {
	client    Getter
	logger    *slog.Logger
	assetBase string
}

// NewService создает клиент каталога.
// assetBase — базовый URL для построения ссылок на картинки.
func NewService(client Getter, assetBase string, logger *slog.Logger) Service {
	return &service{
		client:    client,
		assetBase: assetBase,
		logger:    logger,
	}
}

// Exercises возвращает все упражнения каталога
func (s *service) Exercises(ctx context.Context) ([]models.Exercise, error) {
	var resp pkgapi.Collection[pkgapi.CatalogExercise]
	if err := s.client.Get(ctx, "/exercises", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch exercises: %w", err)
	}

	return s.flattenAll(resp.Data, ""), nil
}

// ExercisesByCategory возвращает упражнения одной категории
func (s *service) ExercisesByCategory(ctx context.Context, category string) ([]models.Exercise, error) {
	path := "/exercises?category=" + url.QueryEscape(category)

	var resp pkgapi.Collection[pkgapi.CatalogExercise]
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch exercises by category: %w", err)
	}

	// Каталог уже отфильтровал, категорию проставляем запрошенную
	return s.flattenAll(resp.Data, category), nil
}

// ExerciseByID возвращает одно упражнение с шагами выполнения
func (s *service) ExerciseByID(ctx context.Context, id string) (*models.Exercise, error) {
	var resp pkgapi.Item[pkgapi.CatalogExercise]
	if err := s.client.Get(ctx, "/exercises/"+url.PathEscape(id), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch exercise %s: %w", id, err)
	}

	exercise := s.flatten(resp.Data, "")
	return &exercise, nil
}

// Categories возвращает отсортированные названия категорий
func (s *service) Categories(ctx context.Context) ([]string, error) {
	var resp pkgapi.Collection[pkgapi.CatalogCategory]
	if err := s.client.Get(ctx, "/categories", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	categories := make([]string, 0, len(resp.Data))
	for _, item := range resp.Data {
		categories = append(categories, item.Name)
	}
	sort.Strings(categories)

	return categories, nil
}

// Search ищет упражнения по названию
func (s *service) Search(ctx context.Context, query string) ([]models.Exercise, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	var resp pkgapi.Collection[pkgapi.CatalogExercise]
	if err := s.client.Get(ctx, "/search/"+url.PathEscape(query), &resp); err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}

	return s.flattenAll(resp.Data, ""), nil
}

// BatchInit загружает упражнения и категории одним запросом
// (оптимизация стартовой загрузки оригинала)
func (s *service) BatchInit(ctx context.Context) ([]models.Exercise, []string, error) {
	var resp pkgapi.BatchInitResponse
	if err := s.client.Get(ctx, "/batch/init", &resp); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch batch init data: %w", err)
	}

	exercises := s.flattenAll(resp.Exercises, "")

	categories := append([]string(nil), resp.Categories...)
	sort.Strings(categories)

	s.logger.Info("batch init data loaded",
		"exercises", len(exercises), "categories", len(categories))

	return exercises, categories, nil
}

// flattenAll нормализует список упражнений каталога
func (s *service) flattenAll(items []pkgapi.CatalogExercise, category string) []models.Exercise {
	exercises := make([]models.Exercise, 0, len(items))
	for _, item := range items {
		exercises = append(exercises, s.flatten(item, category))
	}
	return exercises
}

// flatten разворачивает вложенные ссылки каталога в плоскую модель приложения.
// Пустая категория деградирует до метки по умолчанию.
func (s *service) flatten(item pkgapi.CatalogExercise, category string) models.Exercise {
	exercise := models.Exercise{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		Category:    category,
	}

	if exercise.Category == "" {
		if item.Category != nil && item.Category.Name != "" {
			exercise.Category = item.Category.Name
		} else {
			exercise.Category = models.DefaultCategory
		}
	}

	for _, step := range item.Steps {
		exercise.Steps = append(exercise.Steps, models.Step{
			Image:       s.image(step.Image, item.Name),
			Title:       step.Title,
			Description: step.Description,
		})
	}

	exercise.Image = s.image(item.Image, item.Name)
	if exercise.Image == nil && len(exercise.Steps) > 0 {
		// Нет основной картинки — используем картинку первого шага
		exercise.Image = exercise.Steps[0].Image
	}

	return exercise
}

// image строит URL ассета из файловой ссылки каталога
func (s *service) image(ref *pkgapi.FileRef, fallbackAlt string) *models.Image {
	if ref == nil || ref.ID == "" {
		return nil
	}

	alt := ref.Title
	if alt == "" {
		alt = fallbackAlt
	}

	return &models.Image{
		URL:             s.assetBase + "/assets/" + ref.ID,
		AlternativeText: alt,
	}
}
