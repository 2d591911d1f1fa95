package server

// fetchNewsDescription и fetchNewsSchema объявляют инструмент клиенту. Ограничения
// (min/max, enum) информационные: ядро их повторно не проверяет.
const fetchNewsDescription = "Fetch news articles from the article store. " +
	"You can filter by category, tags, date range, and search keywords."

func fetchNewsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of articles to fetch (default: 10, max: 50)",
				"default":     10,
				"minimum":     1,
				"maximum":     50,
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Filter by news category (e.g., 'technology', 'business', 'sports')",
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Filter by tags; articles with at least one of them match (e.g., ['ai', 'machine-learning'])",
			},
			"search_query": map[string]any{
				"type":        "string",
				"description": "Search in title and content",
			},
			"hours_ago": map[string]any{
				"type":        "integer",
				"description": "Fetch articles from the last N hours",
				"minimum":     1,
			},
			"sort_by": map[string]any{
				"type":        "string",
				"enum":        []string{"published_at", "title"},
				"description": "Sort articles by field (default: published_at)",
				"default":     "published_at",
			},
			"sort_order": map[string]any{
				"type":        "string",
				"enum":        []string{"asc", "desc"},
				"description": "Sort order (default: desc)",
				"default":     "desc",
			},
		},
		"required": []string{},
	}
}
