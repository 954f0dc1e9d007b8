package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"omni-relay/internal/domain"
)

// Fragment es una unidad ordenada de texto generado. Un fallo a mitad del
// stream llega como exactamente un Fragment terminal con Err seteado; los
// fragments ya emitidos nunca se retractan.
type Fragment struct {
	Text string
	Err  error
}

// Client define la frontera con el servicio generativo externo.
type Client interface {
	// Generate produce la respuesta completa en una sola llamada.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateStream produce una secuencia perezosa y ordenada de fragments.
	// El canal se cierra después del último fragment, en éxito y en error.
	GenerateStream(ctx context.Context, prompt string) (<-chan Fragment, error)
}

// GeminiClient implementa Client contra la API REST de Gemini.
type GeminiClient struct {
	baseURL      string
	apiKey       string
	model        string
	client       *http.Client
	streamClient *http.Client
	logger       *zap.Logger
}

// NewGeminiClient construye un cliente apuntando a la API generativa.
func NewGeminiClient(baseURL, apiKey, model string, logger *zap.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		// Sin timeout: la generación larga corre sin deadline.
		streamClient: &http.Client{},
		logger:       logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (r generateResponse) text() string {
	var sb strings.Builder
	for _, c := range r.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func (c *GeminiClient) newRequest(ctx context.Context, method, query, prompt string) (*http.Request, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:%s?%skey=%s", c.baseURL, c.model, method, query, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Generate implementa la llamada one-shot (camino de extracción de eventos).
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	req, err := c.newRequest(ctx, "generateContent", "", prompt)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: do request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("gemini error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return "", fmt.Errorf("%w: status=%d", domain.ErrUpstream, resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", domain.ErrUpstream, err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUpstream, gr.Error.Message)
	}

	text := gr.text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrUpstream)
	}
	return text, nil
}

// GenerateStream implementa la llamada streaming vía SSE del proveedor.
func (c *GeminiClient) GenerateStream(ctx context.Context, prompt string) (<-chan Fragment, error) {
	req, err := c.newRequest(ctx, "streamGenerateContent", "alt=sse&", prompt)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		c.logger.Warn("gemini stream error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("%w: status=%d", domain.ErrUpstream, resp.StatusCode)
	}

	out := make(chan Fragment)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if payload, ok := strings.CutPrefix(strings.TrimSpace(line), "data: "); ok {
				var gr generateResponse
				if uerr := json.Unmarshal([]byte(payload), &gr); uerr == nil {
					if text := gr.text(); text != "" {
						select {
						case out <- Fragment{Text: text}:
						case <-ctx.Done():
							return
						}
					}
				}
			}
			if err != nil {
				if err != io.EOF && ctx.Err() == nil {
					c.logger.Warn("gemini stream read failed", zap.Error(err))
					select {
					case out <- Fragment{Err: fmt.Errorf("%w: %v", domain.ErrUpstream, err)}:
					case <-ctx.Done():
					}
				}
				return
			}
		}
	}()

	return out, nil
}
