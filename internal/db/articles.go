package db

import (
	"context"
	"fmt"
	"time"

	"news_mcp/internal/logger"
	"news_mcp/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("news_mcp/internal/db")

// FetchArticles возвращает статьи, удовлетворяющие q.Predicate, отсортированные по
// q.SortBy/q.SortOrder, не более q.Limit штук. Пустой результат ошибкой не считается.
func (db *Database) FetchArticles(ctx context.Context, q models.Query) ([]models.Article, error) {
	ctx, span := startSpan(ctx, "db.fetch_articles")
	defer span.End()

	pool, err := db.acquire()
	if err != nil {
		return nil, failSpan(span, err)
	}

	query, args, err := db.fetchQuery(q).ToSql()
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("%w: build fetch query: %w", ErrOperationFailed, err))
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("%w: fetch articles: %w", ErrOperationFailed, err))
	}
	defer rows.Close()

	articles := make([]models.Article, 0, min(max(q.Limit, 0), 50))
	for rows.Next() {
		var (
			a           models.Article
			publishedAt *time.Time
		)
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Description, &a.Content, &a.Author, &a.Source,
			&a.URL, &a.ImageURL, &publishedAt, &a.Category, &a.Tags,
		); err != nil {
			return nil, failSpan(span, fmt.Errorf("%w: scan article: %w", ErrOperationFailed, err))
		}
		a.PublishedAt = formatTimestamp(publishedAt)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, failSpan(span, fmt.Errorf("%w: fetch articles: %w", ErrOperationFailed, err))
	}

	span.SetAttributes(attribute.Int("db.rows", len(articles)))
	logger.Log.WithField("count", len(articles)).Debug("Fetched articles")
	return articles, nil
}

// ListCategories перечисляет все различные непустые (NOT NULL) категории коллекции.
func (db *Database) ListCategories(ctx context.Context) ([]string, error) {
	ctx, span := startSpan(ctx, "db.list_categories")
	defer span.End()

	values, err := db.distinct(ctx, db.categoriesQuery())
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("list categories: %w", err))
	}
	return values, nil
}

// ListTags перечисляет все различные теги; каждый элемент массива tags учитывается отдельно.
func (db *Database) ListTags(ctx context.Context) ([]string, error) {
	ctx, span := startSpan(ctx, "db.list_tags")
	defer span.End()

	values, err := db.distinct(ctx, db.tagsQuery())
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("list tags: %w", err))
	}
	return values, nil
}

// CountArticles считает статьи, подходящие под предикат. Нулевой предикат означает всю коллекцию.
func (db *Database) CountArticles(ctx context.Context, p models.Predicate) (int64, error) {
	ctx, span := startSpan(ctx, "db.count_articles")
	defer span.End()

	pool, err := db.acquire()
	if err != nil {
		return 0, failSpan(span, err)
	}

	query, args, err := db.countQuery(p).ToSql()
	if err != nil {
		return 0, failSpan(span, fmt.Errorf("%w: build count query: %w", ErrOperationFailed, err))
	}

	var count int64
	if err := pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, failSpan(span, fmt.Errorf("%w: count articles: %w", ErrOperationFailed, err))
	}
	return count, nil
}

func (db *Database) distinct(ctx context.Context, b sq.SelectBuilder) ([]string, error) {
	pool, err := db.acquire()
	if err != nil {
		return nil, err
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	return values, nil
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
