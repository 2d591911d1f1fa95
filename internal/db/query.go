package db

import (
	"time"

	"news_mcp/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// searchDocument: выражение полнотекстового индекса по title и content. Должно совпадать
// с выражением индекса из schema.go, иначе индекс не используется.
const searchDocument = "to_tsvector('english', coalesce(title, '') || ' ' || coalesce(content, ''))"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id::text",
	"title",
	"coalesce(description, '')",
	"coalesce(content, '')",
	"coalesce(author, '')",
	"coalesce(source, '')",
	"coalesce(url, '')",
	"coalesce(image_url, '')",
	"published_at",
	"coalesce(category, '')",
	"array_remove(coalesce(tags, '{}'), NULL)",
}

// predicateSQL переводит предикат в условия WHERE. Пустой результат: без ограничений.
func predicateSQL(p models.Predicate) sq.And {
	var where sq.And
	if p.Category != "" {
		where = append(where, sq.Eq{"category": p.Category})
	}
	if len(p.Tags) > 0 {
		where = append(where, sq.Expr("tags && ?::text[]", p.Tags))
	}
	if p.Since != nil {
		where = append(where, sq.GtOrEq{"published_at": p.Since.UTC()})
	}
	if p.Search != "" {
		where = append(where, sq.Expr(searchDocument+" @@ websearch_to_tsquery('english', ?)", p.Search))
	}
	return where
}

func sortColumn(f models.SortField) string {
	if f == models.SortByTitle {
		return "title"
	}
	return "published_at"
}

// orderBy: NULL считается наименьшим значением, ничьи разрешаются по id,
// чтобы одинаковые запросы давали одинаковый порядок.
func orderBy(q models.Query) []string {
	col := sortColumn(q.SortBy)
	if q.SortOrder == models.SortDesc {
		return []string{col + " DESC NULLS LAST", "id ASC"}
	}
	return []string{col + " ASC NULLS FIRST", "id ASC"}
}

func withPredicate(b sq.SelectBuilder, p models.Predicate) sq.SelectBuilder {
	if where := predicateSQL(p); len(where) > 0 {
		b = b.Where(where)
	}
	return b
}

func (db *Database) fetchQuery(q models.Query) sq.SelectBuilder {
	limit := q.Limit
	if limit < 0 {
		limit = 0
	}
	b := psql.Select(articleColumns...).From(db.table)
	return withPredicate(b, q.Predicate).
		OrderBy(orderBy(q)...).
		Limit(uint64(limit))
}

func (db *Database) countQuery(p models.Predicate) sq.SelectBuilder {
	return withPredicate(psql.Select("count(*)").From(db.table), p)
}

// categoriesQuery пропускает пустые категории: формат ответа показывает их как general,
// и фильтр по "" ничего не находит.
func (db *Database) categoriesQuery() sq.SelectBuilder {
	return psql.Select("DISTINCT category").
		From(db.table).
		Where("category IS NOT NULL AND category <> ''").
		OrderBy("category")
}

// tagsQuery разворачивает массивы тегов без NULL-элементов.
func (db *Database) tagsQuery() sq.SelectBuilder {
	return psql.Select("DISTINCT unnest(array_remove(tags, NULL)) AS tag").
		From(db.table).
		OrderBy("tag")
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
