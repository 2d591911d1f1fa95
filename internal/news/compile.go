package news

import (
	"math"
	"time"

	"news_mcp/internal/models"
)

// Compile переводит запрос в конъюнктивный предикат и параметры выборки.
// Каждое непустое поле фильтра даёт одно условие; limit и сортировка на отбор не влияют.
// Граница окна свежести считается от now один раз, на всё время вызова.
func Compile(req models.FetchRequest, now time.Time) models.Query {
	var p models.Predicate

	if req.Category != "" {
		p.Category = req.Category
	}
	if len(req.Tags) > 0 {
		p.Tags = append([]string(nil), req.Tags...)
	}
	if req.HoursAgo != 0 {
		since := recencyCutoff(now, req.HoursAgo)
		p.Since = &since
	}
	if req.SearchQuery != "" {
		p.Search = req.SearchQuery
	}

	return models.Query{
		Predicate: p,
		Limit:     req.Limit,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
}

const (
	// maxDurationHours: больше часов в time.Duration не помещается.
	maxDurationHours = math.MaxInt64 / int64(time.Hour)
	// maxCutoffDays ограничивает сдвиг календарной арифметики, дальше граница упирается в earliestCutoff.
	maxCutoffDays = 1_000_000_000
)

var (
	earliestCutoff = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	latestCutoff   = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// recencyCutoff возвращает now - hoursAgo часов. Значения, не помещающиеся в
// time.Duration, считаются по дням; результат не выходит за [earliestCutoff, latestCutoff].
func recencyCutoff(now time.Time, hoursAgo int) time.Time {
	h := int64(hoursAgo)
	if h >= -maxDurationHours && h <= maxDurationHours {
		return now.Add(-time.Duration(h) * time.Hour)
	}

	days := h / 24
	if days > maxCutoffDays {
		return earliestCutoff
	}
	if days < -maxCutoffDays {
		return latestCutoff
	}
	cutoff := now.AddDate(0, 0, -int(days)).Add(-time.Duration(h%24) * time.Hour)
	switch {
	case cutoff.Before(earliestCutoff):
		return earliestCutoff
	case cutoff.After(latestCutoff):
		return latestCutoff
	}
	return cutoff
}
