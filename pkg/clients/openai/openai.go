package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/models"
)

const (
	apiURL    = "https://api.openai.com/v1/chat/completions"
	model     = "gpt-4o"
	maxTokens = 1000
)

const extractionPrompt = "Extract the following details from this invoice image in JSON format: " +
	"vendor, invoiceNumber, date, items (name, quantity, unitPrice, gstRate, amount), " +
	"totalAmount, totalGst. Return ONLY JSON."

// Client defines the interface for invoice image extraction.
type Client interface {
	ParseInvoice(ctx context.Context, image []byte, mimeType string) (*models.ParsedInvoice, error)
}

type visionClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient creates a configured vision client. Extraction failures degrade
// to a placeholder invoice rather than an error, so a flaky backend never
// blocks manual entry.
func NewClient(apiKey string, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	return &visionClient{httpClient: client, logger: logger}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *visionClient) ParseInvoice(ctx context.Context, image []byte, mimeType string) (*models.ParsedInvoice, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	reqBody := chatRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: extractionPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
	}

	var respBody chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		c.logger.Warn("vision api call failed, returning placeholder", zap.Error(err))
		return models.PlaceholderInvoice(), nil
	}
	if resp.IsError() {
		c.logger.Warn("vision api error, returning placeholder", zap.String("body", resp.String()))
		return models.PlaceholderInvoice(), nil
	}
	if len(respBody.Choices) == 0 {
		c.logger.Warn("empty vision response, returning placeholder")
		return models.PlaceholderInvoice(), nil
	}

	parsed, err := decodeInvoiceJSON(respBody.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("unparseable vision response, returning placeholder", zap.Error(err))
		return models.PlaceholderInvoice(), nil
	}
	return parsed, nil
}

// decodeInvoiceJSON tolerates the model wrapping its JSON in markdown fences.
func decodeInvoiceJSON(text string) (*models.ParsedInvoice, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed models.ParsedInvoice
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal invoice json: %w", err)
	}
	return &parsed, nil
}
