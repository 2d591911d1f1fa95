package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"news_mcp/internal/logger"
	"news_mcp/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotEmpty возвращается Seed, если в таблице уже есть статьи, а force не задан.
var ErrNotEmpty = errors.New("article table is not empty")

type fixture struct {
	article models.Article
	age     time.Duration
}

// sampleArticles: демонстрационный набор; дата публикации считается как now - age.
var sampleArticles = []fixture{
	{models.Article{
		Title:       "AI Reaches New Milestone in Natural Language Understanding",
		Description: "Researchers announce breakthrough in AI's ability to understand context and nuance in human language.",
		Content:     "In a significant development for artificial intelligence, researchers have announced a breakthrough in natural language understanding. The new model demonstrates unprecedented ability to grasp context, detect nuance, and generate human-like responses across multiple languages.",
		Author:      "Dr. Sarah Chen",
		Source:      "AI Research Today",
		URL:         "https://example.com/ai-milestone-2025",
		ImageURL:    "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=800",
		Category:    "technology",
		Tags:        []string{"ai", "machine-learning", "nlp", "research"},
	}, 2 * time.Hour},
	{models.Article{
		Title:       "Global Climate Summit Announces Historic Agreement",
		Description: "World leaders commit to ambitious carbon reduction targets at landmark climate conference.",
		Content:     "In a historic move, leaders from over 150 countries have signed a comprehensive agreement to reduce global carbon emissions by 50% by 2035. The summit, held in Geneva, marks a turning point in international climate cooperation.",
		Author:      "Michael Rodriguez",
		Source:      "Environmental News Network",
		URL:         "https://example.com/climate-summit-2025",
		ImageURL:    "https://images.unsplash.com/photo-1569163139394-de4798aa62b5?w=800",
		Category:    "environment",
		Tags:        []string{"climate", "environment", "politics", "sustainability"},
	}, 5 * time.Hour},
	{models.Article{
		Title:       "Tech Giants Announce Collaboration on Quantum Computing",
		Description: "Major technology companies join forces to accelerate quantum computing development.",
		Content:     "Leading technology companies have announced an unprecedented collaboration to advance quantum computing research. The partnership aims to make quantum computing more accessible and practical for real-world applications within the next five years.",
		Author:      "Lisa Wang",
		Source:      "Tech Innovation Weekly",
		URL:         "https://example.com/quantum-collaboration",
		ImageURL:    "https://images.unsplash.com/photo-1635070041078-e363dbe005cb?w=800",
		Category:    "technology",
		Tags:        []string{"quantum-computing", "technology", "innovation", "collaboration"},
	}, 8 * time.Hour},
	{models.Article{
		Title:       "New Study Reveals Benefits of Mediterranean Diet",
		Description: "Long-term research shows significant health improvements from Mediterranean-style eating.",
		Content:     "A comprehensive 10-year study published in the Journal of Nutrition demonstrates that adherence to a Mediterranean diet leads to substantial improvements in cardiovascular health, longevity, and overall well-being.",
		Author:      "Dr. Amanda Foster",
		Source:      "Health & Wellness Journal",
		URL:         "https://example.com/mediterranean-diet-study",
		ImageURL:    "https://images.unsplash.com/photo-1490818387583-1baba5e638af?w=800",
		Category:    "health",
		Tags:        []string{"health", "nutrition", "diet", "research"},
	}, 12 * time.Hour},
	{models.Article{
		Title:       "SpaceX Successfully Launches Mars Mission",
		Description: "Latest spacecraft begins journey to the Red Planet with advanced scientific instruments.",
		Content:     "SpaceX has successfully launched its most ambitious Mars mission to date. The spacecraft carries cutting-edge scientific instruments designed to search for signs of past microbial life and collect samples for eventual return to Earth.",
		Author:      "James Mitchell",
		Source:      "Space Exploration News",
		URL:         "https://example.com/spacex-mars-mission",
		ImageURL:    "https://images.unsplash.com/photo-1516849841032-87cbac4d88f7?w=800",
		Category:    "science",
		Tags:        []string{"space", "mars", "spacex", "exploration"},
	}, 18 * time.Hour},
	{models.Article{
		Title:       "Renewable Energy Surpasses Fossil Fuels in EU",
		Description: "Historic milestone as clean energy becomes dominant power source across Europe.",
		Content:     "For the first time in history, renewable energy sources have generated more electricity than fossil fuels across the European Union. Solar and wind power led the transition, marking a significant step toward carbon neutrality.",
		Author:      "Emma Larsson",
		Source:      "Green Energy Today",
		URL:         "https://example.com/eu-renewable-energy",
		ImageURL:    "https://images.unsplash.com/photo-1466611653911-95081537e5b7?w=800",
		Category:    "energy",
		Tags:        []string{"renewable-energy", "solar", "wind", "sustainability", "europe"},
	}, 24 * time.Hour},
	{models.Article{
		Title:       "Breakthrough in Cancer Treatment Shows Promise",
		Description: "New immunotherapy approach demonstrates remarkable success in clinical trials.",
		Content:     "Medical researchers have announced promising results from clinical trials of a novel cancer immunotherapy. The treatment has shown an 80% success rate in certain types of cancer, offering new hope to patients worldwide.",
		Author:      "Dr. Robert Kim",
		Source:      "Medical Advances Journal",
		URL:         "https://example.com/cancer-breakthrough",
		ImageURL:    "https://images.unsplash.com/photo-1579154204601-01588f351e67?w=800",
		Category:    "health",
		Tags:        []string{"health", "cancer", "research", "medical", "breakthrough"},
	}, 30 * time.Hour},
	{models.Article{
		Title:       "Stock Markets Reach All-Time High",
		Description: "Global markets surge as economic indicators show strong growth.",
		Content:     "Major stock indices around the world have reached record highs, driven by positive economic data and strong corporate earnings. Analysts attribute the rally to improved consumer confidence and technological innovation.",
		Author:      "David Thompson",
		Source:      "Financial Times",
		URL:         "https://example.com/markets-all-time-high",
		ImageURL:    "https://images.unsplash.com/photo-1611974789855-9c2a0a7236a3?w=800",
		Category:    "business",
		Tags:        []string{"finance", "stocks", "economy", "markets"},
	}, 48 * time.Hour},
	{models.Article{
		Title:       "Olympic Games 2028: New Sports Added to Lineup",
		Description: "IOC announces inclusion of esports and other modern competitions.",
		Content:     "The International Olympic Committee has officially added several new sports to the 2028 Olympic Games, including esports, breaking (breakdancing), and skateboarding. The decision reflects the Olympics' effort to appeal to younger audiences.",
		Author:      "Sophie Martin",
		Source:      "Sports International",
		URL:         "https://example.com/olympics-new-sports",
		ImageURL:    "https://images.unsplash.com/photo-1587280501635-68a0e82cd5ff?w=800",
		Category:    "sports",
		Tags:        []string{"sports", "olympics", "esports", "competition"},
	}, 60 * time.Hour},
	{models.Article{
		Title:       "Scientists Discover New Deep-Sea Species",
		Description: "Expedition uncovers fascinating new life forms in unexplored ocean depths.",
		Content:     "A deep-sea exploration mission has discovered dozens of previously unknown species living at extreme depths. The findings highlight how much of Earth's oceans remain unexplored and the importance of marine conservation.",
		Author:      "Dr. Maria Santos",
		Source:      "Ocean Discovery Magazine",
		URL:         "https://example.com/deep-sea-species",
		ImageURL:    "https://images.unsplash.com/photo-1559827260-dc66d52bef19?w=800",
		Category:    "science",
		Tags:        []string{"science", "ocean", "discovery", "marine-biology"},
	}, 72 * time.Hour},
}

var articleInsertColumns = []string{
	"id", "title", "description", "content", "author", "source",
	"url", "image_url", "published_at", "category", "tags",
}

// Seed заливает демонстрационные статьи с датами относительно now. Если таблица не пуста,
// возвращает ErrNotEmpty, а при force сначала очищает её. Проверка, очистка и вставка
// выполняются в одной транзакции: при ошибке таблица остаётся как была.
func (db *Database) Seed(ctx context.Context, now time.Time, force bool) (int, error) {
	pool, err := db.acquire()
	if err != nil {
		return 0, err
	}

	countSQL, countArgs, err := db.countQuery(models.Predicate{}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: build count query: %w", ErrOperationFailed, err)
	}

	rows := make([][]any, 0, len(sampleArticles))
	for _, f := range sampleArticles {
		a := f.article
		rows = append(rows, []any{
			[16]byte(uuid.New()), a.Title, a.Description, a.Content, a.Author, a.Source,
			a.URL, a.ImageURL, now.Add(-f.age).UTC(), a.Category, a.Tags,
		})
	}

	var inserted int64
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var count int64
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
			return fmt.Errorf("%w: count articles: %w", ErrOperationFailed, err)
		}

		if count > 0 {
			if !force {
				return fmt.Errorf("%w: %d articles", ErrNotEmpty, count)
			}
			if _, err := tx.Exec(ctx, "DELETE FROM "+db.table); err != nil {
				return fmt.Errorf("%w: clear table: %w", ErrOperationFailed, err)
			}
			logger.Log.WithField("count", count).Info("Clearing existing articles")
		}

		n, err := tx.CopyFrom(ctx, tableIdentifier(db.table), articleInsertColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("%w: insert fixtures: %w", ErrOperationFailed, err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotEmpty) && !errors.Is(err, ErrOperationFailed) {
			err = fmt.Errorf("%w: seed transaction: %w", ErrOperationFailed, err)
		}
		return 0, err
	}
	return int(inserted), nil
}

func tableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}
