package utils_ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Article is the shape the model is asked to produce for each
// generated news item.
type Article struct {
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Content          string   `json:"content"`
	SourceName       string   `json:"source_name"`
	SourceURL        string   `json:"source_url"`
	Tags             []string `json:"tags"`
	Regions          []string `json:"regions"`
	Companies        []string `json:"companies"`
	Sector           string   `json:"sector"`
	FinancialFigures []string `json:"financial_figures"`
	ImagePrompt      string   `json:"image_prompt"`
}

type Client struct {
	llm        llms.Model
	httpClient *http.Client
	apiKey     string
	baseURL    string
	imageModel string
}

func NewClient() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		opts = append(opts, openai.WithModel(model))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	imageModel := os.Getenv("OPENAI_IMAGE_MODEL")
	if imageModel == "" {
		imageModel = "dall-e-3"
	}

	return &Client{
		llm:        llm,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		apiKey:     apiKey,
		baseURL:    baseURL,
		imageModel: imageModel,
	}, nil
}

const articlePrompt = `You are a financial news writer. Produce %d short news articles
covering today's most relevant finance and markets topics for Indian retail
investors. Respond with ONLY a JSON array, no prose, where each element has
the keys: title, summary, content, source_name, source_url, tags, regions,
companies, sector, financial_figures, image_prompt. tags, regions, companies
and financial_figures are arrays of strings. image_prompt describes a
suitable illustration for the article.`

// GenerateArticles asks the model for a batch of finance news items.
func (c *Client) GenerateArticles(ctx context.Context, n int) ([]Article, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, fmt.Sprintf(articlePrompt, n))
	if err != nil {
		return nil, err
	}

	// Models occasionally wrap the payload in a markdown fence.
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")

	var articles []Article
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &articles); err != nil {
		return nil, fmt.Errorf("model returned malformed article batch: %w", err)
	}

	return articles, nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateImage renders an illustration for a prompt and returns the
// raw PNG bytes. langchaingo has no image-generation surface, so this
// calls the OpenAI-compatible images endpoint directly.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(imageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image generation failed with status %d", resp.StatusCode)
	}

	var decoded imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if len(decoded.Data) == 0 {
		return nil, fmt.Errorf("image generation returned no data")
	}

	return base64.StdEncoding.DecodeString(decoded.Data[0].B64JSON)
}
