package models

// DefaultCategory подставляется, когда каталог не вернул категорию упражнения
const DefaultCategory = "Без категории"

// Image представляет картинку упражнения с готовым URL ассета
type Image struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternative_text,omitempty"`
}

// Step представляет один шаг выполнения упражнения
type Step struct {
	Image       *Image `json:"image,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Exercise представляет упражнение в нормализованном виде приложения:
// вложенные ссылки каталога (category.name, image.id) уже развёрнуты
type Exercise struct {
	Image       *Image `json:"image,omitempty"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps,omitempty"`
}
