package jobs_blog

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/fortaxe/finlook-backend/internal/utils/utils_ai"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_s3"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

const (
	DEFAULT_CRON_SPEC  = "0 2 * * *"
	DEFAULT_BATCH_SIZE = 5
	IMAGE_MAX_ATTEMPTS = 3
	RUN_TIMEOUT        = 20 * time.Minute
)

type Generator struct {
	db        *sqlx.DB
	s3        *utils_s3.Client
	ai        *utils_ai.Client
	batchSize int
	running   atomic.Bool
}

func NewGenerator(db *sqlx.DB, s3Client *utils_s3.Client, aiClient *utils_ai.Client) *Generator {
	return &Generator{
		db:        db,
		s3:        s3Client,
		ai:        aiClient,
		batchSize: DEFAULT_BATCH_SIZE,
	}
}

// TryStart claims the single-flight slot. Callers that get true must
// call Finish when the run ends.
func (g *Generator) TryStart() bool {
	return g.running.CompareAndSwap(false, true)
}

func (g *Generator) Finish() {
	g.running.Store(false)
}

// Schedule registers the nightly run. The spec comes from
// BLOG_CRON_SPEC, defaulting to 02:00 server time.
func (g *Generator) Schedule(c *cron.Cron) error {
	spec := os.Getenv("BLOG_CRON_SPEC")
	if spec == "" {
		spec = DEFAULT_CRON_SPEC
	}

	_, err := c.AddFunc(spec, func() {
		// Skip, don't queue, if the previous run is still going.
		if !g.TryStart() {
			log.Println("blog generation skipped: previous run still in progress")
			return
		}
		defer g.Finish()

		ctx, cancel := context.WithTimeout(context.Background(), RUN_TIMEOUT)
		defer cancel()

		saved, failed := g.Run(ctx)
		log.Printf("scheduled blog generation finished: %d saved, %d failed", saved, failed)
	})
	return err
}

// Run generates a batch of articles and persists them one by one.
// A failure on one item never aborts the rest; the counts tell the
// story.
func (g *Generator) Run(ctx context.Context) (saved, failed int) {
	articles, err := g.ai.GenerateArticles(ctx, g.batchSize)
	if err != nil {
		log.Printf("blog generation: article batch failed: %v", err)
		return 0, g.batchSize
	}

	for _, article := range articles {
		if err := g.saveArticle(ctx, article); err != nil {
			log.Printf("blog generation: failed to save %q: %v", article.Title, err)
			failed++
			continue
		}
		saved++
	}

	return saved, failed
}

func (g *Generator) saveArticle(ctx context.Context, article utils_ai.Article) error {
	blogID := uuid.New()

	// Image generation is the flaky leg; the article is still worth
	// publishing without one.
	var imageURL *string
	if article.ImagePrompt != "" {
		url, err := g.generateImage(ctx, blogID, article.ImagePrompt)
		if err != nil {
			log.Printf("blog generation: image for %q failed after %d attempts: %v",
				article.Title, IMAGE_MAX_ATTEMPTS, err)
		} else {
			imageURL = &url
		}
	}

	var imagePrompt *string
	if article.ImagePrompt != "" {
		imagePrompt = &article.ImagePrompt
	}
	var sourceName, sourceURL, sector *string
	if article.SourceName != "" {
		sourceName = &article.SourceName
	}
	if article.SourceURL != "" {
		sourceURL = &article.SourceURL
	}
	if article.Sector != "" {
		sector = &article.Sector
	}

	_, err := g.db.Exec(
		`INSERT INTO blog_posts (id, title, summary, content, published_at, source_name, source_url,
			tags, regions, companies, sector, financial_figures, image_url, image_prompt, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		blogID, article.Title, article.Summary, article.Content, time.Now().UTC(),
		sourceName, sourceURL,
		pq.StringArray(orEmpty(article.Tags)),
		pq.StringArray(orEmpty(article.Regions)),
		pq.StringArray(orEmpty(article.Companies)),
		sector,
		pq.StringArray(orEmpty(article.FinancialFigures)),
		imageURL, imagePrompt, time.Now().UTC())
	return err
}

// generateImage retries with exponential backoff before giving up,
// then uploads the result.
func (g *Generator) generateImage(ctx context.Context, blogID uuid.UUID, prompt string) (string, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 1; attempt <= IMAGE_MAX_ATTEMPTS; attempt++ {
		data, err := g.ai.GenerateImage(ctx, prompt)
		if err == nil {
			key := fmt.Sprintf("blogs/%s.png", blogID)
			return g.s3.PutBytes(ctx, key, data, "image/png")
		}

		lastErr = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return "", lastErr
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
