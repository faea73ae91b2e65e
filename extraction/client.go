// Package extraction forwards validated invoice images and text to the
// external document-understanding API and returns the structured JSON it
// produces. One consolidated gateway, one request/response contract; exactly
// one upstream attempt per request, no retries.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/invoclear/go-extract-server/internal/config"
)

const systemInstruction = "You are an invoice parser. Extract the seller, invoice, tax and amount " +
	"details from the supplied invoice images or text. Return ONLY JSON that matches the JSON " +
	"Schema provided. Use null for any field not discoverable in the source document. " +
	"Never invent values."

var (
	ErrUpstreamTimeout   = errors.New("upstream extraction call timed out")
	ErrMalformedUpstream = errors.New("malformed upstream response")
)

// UpstreamError carries a non-success upstream status and body for
// diagnostics.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// Request is the validated extraction payload: data-URL encoded page images
// plus optional pre-extracted text.
type Request struct {
	Images []string
	Text   string
}

// Gateway is the outbound extraction contract. The HTTP client below is the
// production implementation; tests substitute fakes.
type Gateway interface {
	Extract(ctx context.Context, req Request) (json.RawMessage, error)
}

// Client calls a chat-completions style model API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg config.ExtractionConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.GetExtractionBaseURL(), "/"),
		apiKey:  cfg.GetExtractionAPIKey(),
		model:   cfg.GetExtractionModel(),
		httpClient: &http.Client{
			Timeout: cfg.GetExtractionTimeout(),
		},
	}
}

var _ Gateway = (*Client)(nil)

// Extract performs the single upstream call and returns the schema-validated
// invoice JSON verbatim.
func (c *Client) Extract(ctx context.Context, req Request) (json.RawMessage, error) {
	rid := uuid.New().String()
	start := time.Now()

	log.Info().
		Str("req_id", rid).
		Str("model", c.model).
		Int("images", len(req.Images)).
		Int("text_len", len(req.Text)).
		Msg("extraction request")

	schema := InvoiceSchema()
	raw, err := c.post(ctx, c.baseURL+"/chat/completions", c.buildBody(req, schema))
	if err != nil {
		log.Warn().
			Str("req_id", rid).
			Err(err).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Msg("extraction upstream error")
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformedUpstream, err)
	}
	if len(cc.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedUpstream)
	}

	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))
	if err := validateAgainstSchema(schema, content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUpstream, err)
	}

	log.Info().
		Str("req_id", rid).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("extraction ok")
	return content, nil
}

func (c *Client) buildBody(req Request, schema map[string]any) map[string]any {
	content := []map[string]any{}
	for _, img := range req.Images {
		content = append(content, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": img},
		})
	}
	userText := "Extract the invoice fields."
	if req.Text != "" {
		userText += "\n\nDocument text:\n" + req.Text
	}
	content = append(content, map[string]any{"type": "text", "text": userText})

	schemaJSON, _ := json.Marshal(schema)
	return map[string]any{
		"model":           c.model,
		"temperature":     0,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemInstruction},
			{"role": "system", "content": "JSON Schema:\n" + string(schemaJSON)},
			{"role": "user", "content": content},
		},
	}
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrUpstreamTimeout
		}
		return nil, fmt.Errorf("upstream http error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
