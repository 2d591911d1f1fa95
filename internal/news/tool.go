package news

import (
	"context"
	"encoding/json"
	"time"

	"news_mcp/internal/logger"
	"news_mcp/internal/metrics"
	"news_mcp/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ToolName: имя инструмента в протоколе.
const ToolName = "fetch_news"

var tracer = otel.Tracer("news_mcp/internal/news")

// ArticleStore: чтение статей, которое нужно инструменту от шлюза хранилища.
type ArticleStore interface {
	FetchArticles(ctx context.Context, q models.Query) ([]models.Article, error)
}

// Result: ответ одного вызова. IsError помечает блок с описанием ошибки.
type Result struct {
	Content []Content
	IsError bool
}

// FetchNewsTool выполняет fetch_news: аргументы → запрос → шлюз → ответ.
type FetchNewsTool struct {
	store   ArticleStore
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*FetchNewsTool)

// WithMetrics подключает prometheus-метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *FetchNewsTool) { t.metrics = m }
}

// WithClock подменяет источник текущего времени (нужно тестам).
func WithClock(now func() time.Time) Option {
	return func(t *FetchNewsTool) { t.now = now }
}

func NewFetchNewsTool(store ArticleStore, opts ...Option) *FetchNewsTool {
	t := &FetchNewsTool{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute обрабатывает один вызов. Любая ошибка (аргументы, хранилище, кодирование)
// превращается в текстовый блок "Error fetching news: ..." и наружу не пробрасывается.
func (t *FetchNewsTool) Execute(ctx context.Context, raw json.RawMessage) Result {
	start := time.Now()
	log := logger.Log.WithFields(logger.Fields{
		"tool":          ToolName,
		"invocation_id": uuid.NewString(),
	})

	ctx, span := tracer.Start(ctx, ToolName, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	fail := func(err error) Result {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Error("Error fetching news")
		t.metrics.ObserveInvocation(ToolName, metrics.OutcomeError, time.Since(start), 0)
		return Result{
			Content: []Content{TextContent("Error fetching news: " + err.Error())},
			IsError: true,
		}
	}

	req, err := DecodeArguments(raw)
	if err != nil {
		return fail(err)
	}

	log = log.WithFields(logger.Fields{
		"limit":        req.Limit,
		"category":     req.Category,
		"tags":         req.Tags,
		"search_query": req.SearchQuery,
		"hours_ago":    req.HoursAgo,
		"sort_by":      req.SortBy,
		"sort_order":   req.SortOrder,
	})
	log.Info("Fetching news")

	query := Compile(req, t.now())
	span.SetAttributes(
		attribute.Int("news.limit", req.Limit),
		attribute.String("news.sort_by", string(req.SortBy)),
		attribute.String("news.sort_order", string(req.SortOrder)),
		attribute.Bool("news.filter.category", query.Predicate.Category != ""),
		attribute.Bool("news.filter.tags", len(query.Predicate.Tags) > 0),
		attribute.Bool("news.filter.recency", query.Predicate.Since != nil),
		attribute.Bool("news.filter.search", query.Predicate.Search != ""),
	)

	articles, err := t.store.FetchArticles(ctx, query)
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(attribute.Int("news.count", len(articles)))

	content, err := FormatArticles(articles)
	if err != nil {
		return fail(err)
	}

	outcome := metrics.OutcomeOK
	if len(articles) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	t.metrics.ObserveInvocation(ToolName, outcome, time.Since(start), len(articles))
	log.WithFields(logger.Fields{
		"count":    len(articles),
		"duration": time.Since(start).String(),
	}).Info("Fetched news")

	return Result{Content: content}
}
