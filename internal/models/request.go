package models

import "time"

// SortField: поле сортировки результата.
type SortField string

const (
	SortByPublishedAt SortField = "published_at"
	SortByTitle       SortField = "title"
)

// SortOrder: направление сортировки.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const DefaultLimit = 10

// FetchRequest: типизированные аргументы вызова fetch_news после подстановки значений
// по умолчанию. Нулевые значения фильтров означают «без ограничения».
type FetchRequest struct {
	Limit       int
	Category    string
	Tags        []string
	SearchQuery string
	HoursAgo    int
	SortBy      SortField
	SortOrder   SortOrder
}

// Predicate: конъюнктивное условие отбора. Каждое заполненное поле даёт одно условие,
// пустое поле условия не даёт; нулевой Predicate совпадает со всей коллекцией.
type Predicate struct {
	Category string
	Tags     []string
	// Since: нижняя граница published_at, вычисленная один раз при компиляции.
	Since  *time.Time
	Search string
}

// IsEmpty сообщает, что предикат не содержит ни одного условия.
func (p Predicate) IsEmpty() bool {
	return p.Category == "" && len(p.Tags) == 0 && p.Since == nil && p.Search == ""
}

// Query описывает скомпилированный запрос к шлюзу (отбор, сортировка и предел).
type Query struct {
	Predicate Predicate
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
}
