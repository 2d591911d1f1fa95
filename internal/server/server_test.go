package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"news_mcp/internal/metrics"
	"news_mcp/internal/models"
	"news_mcp/internal/news"
	"news_mcp/internal/server"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	articles   []models.Article
	err        error
	pingErr    error
	categories []string
	tags       []string
	calls      []models.Query
}

func (s *fakeStore) FetchArticles(_ context.Context, q models.Query) ([]models.Article, error) {
	s.calls = append(s.calls, q)
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) ListCategories(context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func (s *fakeStore) ListTags(context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tags, nil
}

func sampleStore() *fakeStore {
	return &fakeStore{
		articles: []models.Article{{
			ID:          "a1",
			Title:       "AI Breakthrough in Natural Language Processing",
			Description: "New model reaches human parity.",
			Content:     "Researchers announced...",
			Author:      "Dr. Sarah Chen",
			Source:      "Tech Daily",
			URL:         "https://example.com/ai",
			PublishedAt: "2025-10-15T10:00:00Z",
			Category:    "technology",
			Tags:        []string{"ai", "nlp"},
		}},
		categories: []string{"business", "technology"},
		tags:       []string{"ai", "nlp"},
	}
}

func newServer(store *fakeStore, reg *prometheus.Registry) *server.Server {
	m := metrics.New(reg)
	tool := news.NewFetchNewsTool(store,
		news.WithMetrics(m),
		news.WithClock(func() time.Time { return fixedNow }),
	)
	return server.NewServer(store, tool, server.WithVersion("test"), server.WithGatherer(reg))
}

func connect(t *testing.T, srv *server.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	ct, st := mcp.NewInMemoryTransports()
	ss, err := srv.MCP().Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, newServer(sampleStore(), prometheus.NewRegistry()))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)

	tool := res.Tools[0]
	require.Equal(t, news.ToolName, tool.Name)
	require.Contains(t, tool.Description, "filter by category, tags, date range")

	schema, ok := tool.InputSchema.(map[string]any)
	require.True(t, ok, "unexpected schema type %T", tool.InputSchema)
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"limit", "category", "tags", "search_query", "hours_ago", "sort_by", "sort_order"} {
		require.Contains(t, props, name)
	}
}

func TestCallFetchNews(t *testing.T) {
	store := sampleStore()
	cs := connect(t, newServer(store, prometheus.NewRegistry()))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      news.ToolName,
		Arguments: map[string]any{"limit": 5, "category": "technology"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := callText(t, res)
	require.True(t, strings.HasPrefix(text, "Found 1 news article(s):\n\n**1. AI Breakthrough in Natural Language Processing**\n"))
	require.Contains(t, text, "<!-- Widget Data -->")

	require.Len(t, store.calls, 1)
	require.Equal(t, 5, store.calls[0].Limit)
	require.Equal(t, "technology", store.calls[0].Predicate.Category)
}

func TestCallFetchNews_NoArguments(t *testing.T) {
	store := sampleStore()
	cs := connect(t, newServer(store, prometheus.NewRegistry()))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: news.ToolName})
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, store.calls, 1)
	require.Equal(t, models.DefaultLimit, store.calls[0].Limit)
	require.Equal(t, models.SortDesc, store.calls[0].SortOrder)
}

func TestCallFetchNews_Empty(t *testing.T) {
	store := sampleStore()
	store.articles = nil
	cs := connect(t, newServer(store, prometheus.NewRegistry()))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      news.ToolName,
		Arguments: map[string]any{"search_query": "nothing"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, news.NoArticlesMessage, callText(t, res))
}

func TestCallFetchNews_Errors(t *testing.T) {
	tests := []struct {
		name    string
		storeEr error
		args    map[string]any
		want    string
	}{
		{
			name:    "store failure",
			storeEr: errors.New("connection refused"),
			args:    map[string]any{},
			want:    "Error fetching news: connection refused",
		},
		{
			name: "wrong argument type",
			args: map[string]any{"limit": "five"},
			want: "Error fetching news: invalid arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sampleStore()
			store.err = tt.storeEr
			cs := connect(t, newServer(store, prometheus.NewRegistry()))

			res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      news.ToolName,
				Arguments: tt.args,
			})
			require.NoError(t, err)
			require.True(t, res.IsError)
			require.True(t, strings.HasPrefix(callText(t, res), tt.want))
		})
	}
}

func TestReadResources(t *testing.T) {
	cs := connect(t, newServer(sampleStore(), prometheus.NewRegistry()))

	tests := []struct {
		uri  string
		want []string
	}{
		{uri: server.CategoriesURI, want: []string{"business", "technology"}},
		{uri: server.TagsURI, want: []string{"ai", "nlp"}},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			res, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: tt.uri})
			require.NoError(t, err)
			require.Len(t, res.Contents, 1)
			require.Equal(t, "application/json", res.Contents[0].MIMEType)

			var got []string
			require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReadResources_EmptyStore(t *testing.T) {
	store := sampleStore()
	store.categories = nil
	cs := connect(t, newServer(store, prometheus.NewRegistry()))

	res, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: server.CategoriesURI})
	require.NoError(t, err)
	require.Equal(t, "[]", res.Contents[0].Text)
}

func TestReadResources_StoreError(t *testing.T) {
	store := sampleStore()
	store.err = errors.New("boom")
	cs := connect(t, newServer(store, prometheus.NewRegistry()))

	_, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: server.TagsURI})
	require.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	t.Run("store available", func(t *testing.T) {
		srv := newServer(sampleStore(), prometheus.NewRegistry())
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		srv.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "OK", w.Body.String())
		require.NotEmpty(t, w.Header().Get(server.RequestIDHeader))
	})

	t.Run("store unavailable", func(t *testing.T) {
		store := sampleStore()
		store.pingErr = errors.New("down")
		srv := newServer(store, prometheus.NewRegistry())
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		srv.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newServer(sampleStore(), prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, "req-42", w.Header().Get(server.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newServer(sampleStore(), reg)
	cs := connect(t, srv)

	_, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: news.ToolName})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `news_mcp_tool_invocations_total{outcome="ok",tool="fetch_news"} 1`)
}

func TestStreamableHTTP(t *testing.T) {
	srv := newServer(sampleStore(), prometheus.NewRegistry())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: ts.URL + "/mcp"}, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      news.ToolName,
		Arguments: map[string]any{"tags": []string{"ai"}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, callText(t, res), "AI Breakthrough")
}

func TestListenHTTP_Shutdown(t *testing.T) {
	srv := newServer(sampleStore(), prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenHTTP(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
