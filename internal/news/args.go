package news

import (
	"bytes"
	"encoding/json"
	"fmt"

	"news_mcp/internal/models"
)

// fetchArgs: сырые аргументы вызова. Указатели отличают «не передано» от нулевого значения.
type fetchArgs struct {
	Limit       *int     `json:"limit"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	SearchQuery *string  `json:"search_query"`
	HoursAgo    *int     `json:"hours_ago"`
	SortBy      *string  `json:"sort_by"`
	SortOrder   *string  `json:"sort_order"`
}

// DecodeArguments разбирает аргументы fetch_news и подставляет значения по умолчанию.
// Диапазоны из схемы здесь не проверяются. Пустой ввод и null равны {}.
func DecodeArguments(raw json.RawMessage) (models.FetchRequest, error) {
	var args fetchArgs
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &args); err != nil {
			return models.FetchRequest{}, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	req := models.FetchRequest{
		Limit:     models.DefaultLimit,
		Tags:      args.Tags,
		SortBy:    models.SortByPublishedAt,
		SortOrder: models.SortDesc,
	}
	if args.Limit != nil {
		req.Limit = *args.Limit
	}
	if args.Category != nil {
		req.Category = *args.Category
	}
	if args.SearchQuery != nil {
		req.SearchQuery = *args.SearchQuery
	}
	if args.HoursAgo != nil {
		req.HoursAgo = *args.HoursAgo
	}
	if args.SortBy != nil && *args.SortBy != "" {
		req.SortBy = models.SortField(*args.SortBy)
	}
	if args.SortOrder != nil && *args.SortOrder != "" {
		req.SortOrder = models.SortOrder(*args.SortOrder)
	}
	return req, nil
}
