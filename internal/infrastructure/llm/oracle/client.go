package oracle

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dealdesk/dealdocs/internal/infrastructure/resilience"
)

const (
	defaultMaxTokens = 8192
	messagesPath     = "/v1/messages"
)

// Client speaks the messages-style completion protocol: system prompt blocks
// (individually cacheable), one user message of content blocks, and a usage
// record covering cache reads and creations. Any compatible text/vision
// provider can sit behind it.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, apiKey, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxTokens:  defaultMaxTokens,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Model() string { return c.model }

type cacheControl struct {
	Type string `json:"type"`
}

// systemBlock is one system prompt segment. Blocks carrying CacheControl are
// eligible for the provider's native prompt caching.
type systemBlock struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	CacheControl *cacheControl `json:"cache_control,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// contentBlock is one user-message segment: text, image, or embedded document.
type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    []systemBlock `json:"system"`
	Messages  []message     `json:"messages"`
}

type completionUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
}

type completionResponse struct {
	Content []contentBlock  `json:"content"`
	Usage   completionUsage `json:"usage"`
}

// complete performs one oracle call and concatenates returned text blocks.
func (c *Client) complete(ctx context.Context, operation string, system []systemBlock, content []contentBlock) (string, completionUsage, int64, error) {
	request := completionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: content}},
	}

	var response completionResponse
	started := time.Now()
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, messagesPath, request, &response, operation)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "oracle."+operation, call, classifyOracleError)
	} else {
		err = call(ctx)
	}
	latency := time.Since(started).Milliseconds()
	if err != nil {
		return "", completionUsage{}, latency, wrapTemporaryIfNeeded(operation, err)
	}

	var builder strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String(), response.Usage, latency, nil
}
