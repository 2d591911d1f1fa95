package db

import (
	"context"
	"fmt"
	"strings"
)

// schemaStatements создают таблицу статей и индексы: по дате, категории, тегам и
// полнотекстовый индекс по title+content (нужен для search_query).
func schemaStatements(table string) []string {
	name := strings.ReplaceAll(table, ".", "_")
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			content TEXT,
			author TEXT,
			source TEXT,
			url TEXT,
			image_url TEXT,
			published_at TIMESTAMP WITH TIME ZONE,
			category TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}'
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_published_at_idx ON %s (published_at DESC)`, name, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_category_idx ON %s (category)`, name, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_tags_idx ON %s USING GIN (tags)`, name, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_search_idx ON %s USING GIN (%s)`, name, table, searchDocument),
	}
}

// Migrate создаёт таблицу и индексы, если их ещё нет.
func (db *Database) Migrate(ctx context.Context) error {
	pool, err := db.acquire()
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements(db.table) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migrate: %w", ErrOperationFailed, err)
		}
	}
	return nil
}
