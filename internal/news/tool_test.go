package news_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"news_mcp/internal/metrics"
	"news_mcp/internal/models"
	"news_mcp/internal/news"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeStore struct {
	articles []models.Article
	err      error
	calls    []models.Query
}

func (s *fakeStore) FetchArticles(_ context.Context, q models.Query) ([]models.Article, error) {
	s.calls = append(s.calls, q)
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func newTool(store news.ArticleStore, m *metrics.Metrics) *news.FetchNewsTool {
	return news.NewFetchNewsTool(store,
		news.WithMetrics(m),
		news.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestExecute_DefaultParameters(t *testing.T) {
	store := &fakeStore{articles: sampleArticles()}
	tool := newTool(store, nil)

	result := tool.Execute(context.Background(), json.RawMessage(`{}`))

	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	require.Equal(t, news.ContentText, result.Content[0].Type)
	require.Contains(t, result.Content[0].Text, "AI Breakthrough")
	require.Contains(t, result.Content[0].Text, "Climate Change")

	require.Len(t, store.calls, 1)
	require.Equal(t, models.Query{
		Limit:     10,
		SortBy:    models.SortByPublishedAt,
		SortOrder: models.SortDesc,
	}, store.calls[0])
}

func TestExecute_WithFilters(t *testing.T) {
	store := &fakeStore{articles: sampleArticles()[:1]}
	tool := newTool(store, nil)

	result := tool.Execute(context.Background(), json.RawMessage(`{
		"limit": 5,
		"category": "technology",
		"tags": ["ai"],
		"hours_ago": 24
	}`))

	require.False(t, result.IsError)
	require.Contains(t, result.Content[0].Text, "AI Breakthrough")

	since := fixedNow.Add(-24 * time.Hour)
	require.Equal(t, []models.Query{{
		Predicate: models.Predicate{Category: "technology", Tags: []string{"ai"}, Since: &since},
		Limit:     5,
		SortBy:    models.SortByPublishedAt,
		SortOrder: models.SortDesc,
	}}, store.calls)
}

func TestExecute_NoResults(t *testing.T) {
	tool := newTool(&fakeStore{}, nil)

	result := tool.Execute(context.Background(), nil)

	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	require.Contains(t, result.Content[0].Text, "No news articles found")
	require.NotContains(t, result.Content[0].Text, "Widget Data")
}

func TestExecute_StoreError(t *testing.T) {
	tool := newTool(&fakeStore{err: errors.New("Database connection failed")}, nil)

	result := tool.Execute(context.Background(), json.RawMessage(`{}`))

	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	require.True(t, strings.HasPrefix(result.Content[0].Text, "Error fetching news"))
	require.Contains(t, result.Content[0].Text, "Database connection failed")
}

func TestExecute_InvalidArguments(t *testing.T) {
	store := &fakeStore{articles: sampleArticles()}
	tool := newTool(store, nil)

	result := tool.Execute(context.Background(), json.RawMessage(`{"limit": "many"}`))

	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].Text, "Error fetching news: invalid arguments")
	require.Empty(t, store.calls)
}

func TestExecute_Idempotent(t *testing.T) {
	tool := newTool(&fakeStore{articles: sampleArticles()}, nil)
	args := json.RawMessage(`{"tags": ["ai", "climate"], "sort_order": "asc"}`)

	first := tool.Execute(context.Background(), args)
	second := tool.Execute(context.Background(), args)
	require.Equal(t, first, second)
}

func TestExecute_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	newTool(&fakeStore{articles: sampleArticles()}, m).Execute(context.Background(), nil)
	newTool(&fakeStore{}, m).Execute(context.Background(), nil)
	newTool(&fakeStore{err: errors.New("boom")}, m).Execute(context.Background(), nil)

	for _, outcome := range []string{metrics.OutcomeOK, metrics.OutcomeEmpty, metrics.OutcomeError} {
		require.Equal(t, 1.0, testutil.ToFloat64(m.Invocations.WithLabelValues(news.ToolName, outcome)), outcome)
	}
}

func TestExecute_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	// Глобальный провайдер подхватывается трейсером пакета только один раз.
	otel.SetTracerProvider(tp)

	tool := newTool(&fakeStore{articles: sampleArticles()}, nil)
	tool.Execute(context.Background(), json.RawMessage(`{"category": "technology"}`))

	failing := newTool(&fakeStore{err: errors.New("boom")}, nil)
	failing.Execute(context.Background(), nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	ok := spans[0]
	require.Equal(t, news.ToolName, ok.Name)
	attrs := map[string]any{}
	for _, kv := range ok.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, true, attrs["news.filter.category"])
	require.Equal(t, false, attrs["news.filter.tags"])
	require.Equal(t, int64(2), attrs["news.count"])

	require.Equal(t, codes.Error, spans[1].Status.Code)
}
