package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"news_mcp/internal/models"
	"news_mcp/internal/news"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const maxCheckTags = 10

// checkStore: чтения, которые выполняет проверка подключения.
type checkStore interface {
	news.ArticleStore
	CountArticles(ctx context.Context, p models.Predicate) (int64, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)
}

var sampleFetches = []struct {
	label string
	args  string
}{
	{"Latest 5 articles", `{"limit": 5}`},
	{"Technology articles", `{"category": "technology", "limit": 3}`},
	{"Articles tagged 'ai'", `{"tags": ["ai"], "limit": 3}`},
	{"Articles from the last 24 hours", `{"hours_ago": 24, "limit": 5}`},
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the article store connection and run sample fetches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			database, err := openStore(cmd.Context(), cfg)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), errStyle.Render("✗ Connection failed: "+err.Error()))
				return err
			}
			defer database.Close()

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓ Connected to article store (table "+database.Table()+")"))
			return runCheck(cmd.Context(), cmd.OutOrStdout(), database)
		},
	}
}

// runCheck печатает число статей, первые строки четырёх пробных выборок
// и справочники категорий и тегов.
func runCheck(ctx context.Context, w io.Writer, store checkStore) error {
	var (
		count      int64
		categories []string
		tags       []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = store.CountArticles(gctx, models.Predicate{})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = store.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = store.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintln(w, errStyle.Render("✗ "+err.Error()))
		return err
	}

	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Total articles:"), count)
	if count == 0 {
		fmt.Fprintln(w, warnStyle.Render("⚠ No articles found. Run `newsmcp seed` to insert sample data."))
		return nil
	}

	tool := news.NewFetchNewsTool(store)
	var failed bool
	for _, s := range sampleFetches {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render(s.label))

		res := tool.Execute(ctx, json.RawMessage(s.args))
		text := ""
		if len(res.Content) > 0 {
			text = res.Content[0].Text
		}
		first, _, _ := strings.Cut(text, "\n")
		if res.IsError {
			failed = true
			fmt.Fprintln(w, errStyle.Render("✗ "+first))
			continue
		}
		fmt.Fprintln(w, previewStyle.Render(first))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Categories:"), strings.Join(categories, ", "))

	shown := tags
	suffix := ""
	if len(tags) > maxCheckTags {
		shown = tags[:maxCheckTags]
		suffix = "..."
	}
	fmt.Fprintf(w, "%s %s%s\n", labelStyle.Render("Tags:"), strings.Join(shown, ", "), suffix)

	if failed {
		return errors.New("sample fetch failed")
	}
	fmt.Fprintln(w, okStyle.Render("✓ All checks passed"))
	return nil
}
