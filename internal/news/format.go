package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"news_mcp/internal/models"
)

// NoArticlesMessage: ответ на запрос, под который не подошла ни одна статья.
const NoArticlesMessage = "No news articles found matching your criteria."

const (
	widgetType        = "news_feed"
	widgetMarker      = "<!-- Widget Data -->"
	ellipsis          = "..."
	contentLimit      = 500
	descriptionLimit  = 200
	maxReadableTags   = 5
	defaultTitle      = "Untitled"
	defaultReadSource = "Unknown"
	defaultAuthor     = "Unknown"
	defaultSource     = "Unknown Source"
	defaultCategory   = "general"
)

// ContentType: вид блока ответа. Сейчас выдаётся только текст.
type ContentType string

const ContentText ContentType = "text"

// Content: один блок ответа инструмента.
type Content struct {
	Type ContentType
	Text string
}

// TextContent создаёт текстовый блок.
func TextContent(text string) Content {
	return Content{Type: ContentText, Text: text}
}

// WidgetPayload: машиночитаемая часть ответа.
type WidgetPayload struct {
	Type     string          `json:"type"`
	Count    int             `json:"count"`
	Articles []WidgetArticle `json:"articles"`
}

// WidgetArticle: статья в машиночитаемой части, с подставленными значениями по умолчанию.
type WidgetArticle struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Source      string   `json:"source"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url"`
	PublishedAt string   `json:"published_at"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// FormatArticles собирает ответ: нумерованный читаемый список и встроенный JSON-блок
// после маркера виджета. Для пустого списка возвращает только NoArticlesMessage.
func FormatArticles(articles []models.Article) ([]Content, error) {
	if len(articles) == 0 {
		return []Content{TextContent(NoArticlesMessage)}, nil
	}

	payload, err := encodePayload(BuildPayload(articles))
	if err != nil {
		return nil, err
	}

	text := ReadableSummary(articles) + "\n\n" + widgetMarker + "\n```json\n" + payload + "\n```"
	return []Content{TextContent(text)}, nil
}

// BuildPayload строит машиночитаемое представление статей.
func BuildPayload(articles []models.Article) WidgetPayload {
	payload := WidgetPayload{
		Type:     widgetType,
		Count:    len(articles),
		Articles: make([]WidgetArticle, 0, len(articles)),
	}
	for _, a := range articles {
		tags := a.Tags
		if tags == nil {
			tags = []string{}
		}
		payload.Articles = append(payload.Articles, WidgetArticle{
			ID:          a.ID,
			Title:       orDefault(a.Title, defaultTitle),
			Description: a.Description,
			// Многоточие добавляется всегда, даже к короткому или пустому тексту.
			Content:     truncate(a.Content, contentLimit) + ellipsis,
			Author:      orDefault(a.Author, defaultAuthor),
			Source:      orDefault(a.Source, defaultSource),
			URL:         a.URL,
			ImageURL:    a.ImageURL,
			PublishedAt: a.PublishedAt,
			Category:    orDefault(a.Category, defaultCategory),
			Tags:        tags,
		})
	}
	return payload
}

// ReadableSummary рендерит статьи нумерованным списком с подписанными полями.
func ReadableSummary(articles []models.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d news article(s):\n\n", len(articles))

	for i, a := range articles {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, orDefault(a.Title, defaultTitle))
		fmt.Fprintf(&b, "   📰 Source: %s\n", orDefault(a.Source, defaultReadSource))
		if a.Author != "" {
			fmt.Fprintf(&b, "   ✍️  Author: %s\n", a.Author)
		}
		if a.PublishedAt != "" {
			fmt.Fprintf(&b, "   📅 Published: %s\n", a.PublishedAt)
		}
		if a.Category != "" {
			fmt.Fprintf(&b, "   🏷️  Category: %s\n", a.Category)
		}
		if len(a.Tags) > 0 {
			tags := a.Tags
			if len(tags) > maxReadableTags {
				tags = tags[:maxReadableTags]
			}
			fmt.Fprintf(&b, "   🔖 Tags: %s\n", strings.Join(tags, ", "))
		}
		if a.Description != "" {
			fmt.Fprintf(&b, "   📝 %s%s\n", truncate(a.Description, descriptionLimit), ellipsis)
		}
		if a.URL != "" {
			fmt.Fprintf(&b, "   🔗 [Read more](%s)\n", a.URL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func encodePayload(payload WidgetPayload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("encode widget payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// truncate обрезает s до n символов (рун).
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
