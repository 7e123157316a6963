package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// maxCatalogSteps ограничивает количество пошаговых полей step_N_* в каталоге
const maxCatalogSteps = 5

// Meta представляет метаданные коллекции каталога
type Meta struct {
	TotalCount int `json:"total_count"`
}

// Collection декодирует коллекции каталога, которые приходят
// либо голым массивом, либо обёрткой {data: [...], meta: {...}}.
// Любая другая форма — ошибка декодирования, а не тихий nil.
type Collection[T any] struct {
	Meta *Meta
	Data []T
}

func (c *Collection[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("empty collection payload")
	}

	switch trimmed[0] {
	case '[':
		return json.Unmarshal(b, &c.Data)
	case '{':
		var wrapped struct {
			Meta *Meta             `json:"meta"`
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return fmt.Errorf("failed to decode wrapped collection: %w", err)
		}
		if wrapped.Data == nil {
			return fmt.Errorf("collection object has no data field")
		}
		items := make([]T, 0, len(wrapped.Data))
		for _, raw := range wrapped.Data {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return fmt.Errorf("failed to decode collection item: %w", err)
			}
			items = append(items, item)
		}
		c.Data = items
		c.Meta = wrapped.Meta
		return nil
	default:
		return fmt.Errorf("collection payload is neither array nor object")
	}
}

// Item декодирует одиночный ресурс каталога: голый объект или {data: {...}}
type Item[T any] struct {
	Data T
}

func (i *Item[T]) UnmarshalJSON(b []byte) error {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && len(wrapped.Data) > 0 {
		return json.Unmarshal(wrapped.Data, &i.Data)
	}
	return json.Unmarshal(b, &i.Data)
}

// FlexID представляет идентификатор каталога, который приходит
// то строкой, то числом
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// FileRef представляет ссылку на файл каталога:
// либо голый ID-строка, либо объект {id, title}
type FileRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (r *FileRef) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.ID)
	}
	type plain FileRef
	return json.Unmarshal(trimmed, (*plain)(r))
}

// CatalogCategory представляет категорию упражнения в каталоге
type CatalogCategory struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

// CatalogStep представляет один шаг выполнения упражнения
type CatalogStep struct {
	Image       *FileRef
	Title       string
	Description string
}

// CatalogExercise представляет упражнение в формате каталога.
// Шаги выполнения приходят плоскими полями step_1_image, step_1_title и т.д.,
// поэтому декодируем вручную и сворачиваем их в срез.
type CatalogExercise struct {
	Category    *CatalogCategory
	Image       *FileRef
	ID          FlexID
	Name        string
	Description string
	Steps       []CatalogStep
}

func (e *CatalogExercise) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("exercise is not an object: %w", err)
	}

	if err := decodeField(fields, "id", &e.ID); err != nil {
		return err
	}
	if err := decodeField(fields, "name", &e.Name); err != nil {
		return err
	}
	if err := decodeField(fields, "description", &e.Description); err != nil {
		return err
	}
	if err := decodeField(fields, "category", &e.Category); err != nil {
		return err
	}
	if err := decodeField(fields, "image", &e.Image); err != nil {
		return err
	}

	for i := 1; i <= maxCatalogSteps; i++ {
		prefix := "step_" + strconv.Itoa(i)
		var step CatalogStep
		if err := decodeField(fields, prefix+"_image", &step.Image); err != nil {
			return err
		}
		if err := decodeField(fields, prefix+"_title", &step.Title); err != nil {
			return err
		}
		if err := decodeField(fields, prefix+"_description", &step.Description); err != nil {
			return err
		}
		if step.Image == nil && step.Title == "" && step.Description == "" {
			continue
		}
		e.Steps = append(e.Steps, step)
	}

	return nil
}

// decodeField декодирует одно поле объекта, пропуская отсутствующие и null
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) error {
	raw, ok := fields[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode field %q: %w", key, err)
	}
	return nil
}

// BatchInitResponse представляет ответ GET /batch/init:
// упражнения и категории одним запросом для стартовой загрузки
type BatchInitResponse struct {
	Exercises  []CatalogExercise `json:"exercises"`
	Categories []string          `json:"categories"`
}
