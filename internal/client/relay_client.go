package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"omni-relay/internal/calendar"
	"omni-relay/internal/domain"
)

// RelayClient habla con los endpoints del relay. Es el equivalente de los
// consumidores del sidebar y del background worker: cada instancia abre sus
// propios streams y no comparte estado con otros consumidores.
type RelayClient struct {
	baseURL string
	client  *http.Client
}

// NewRelayClient construye un cliente del relay.
func NewRelayClient(baseURL string, httpClient *http.Client) *RelayClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RelayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

func (c *RelayClient) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.client.Do(req)
}

// openStream hace el POST y entrega el body crudo para el decoder. Respuestas
// de error previas al stream se traducen a error normal.
func (c *RelayClient) openStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	resp, err := c.postJSON(ctx, path, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp.Body, nil
}

// OpenChat abre el stream del endpoint de chat.
func (c *RelayClient) OpenChat(ctx context.Context, message, pageContext string) (io.ReadCloser, error) {
	return c.openStream(ctx, "/api/chat", map[string]string{
		"message": message,
		"context": pageContext,
	})
}

// OpenAction abre el stream de rephrase/summarize.
func (c *RelayClient) OpenAction(ctx context.Context, action, text string) (io.ReadCloser, error) {
	return c.openStream(ctx, "/api/action", map[string]string{
		"action": action,
		"text":   text,
	})
}

// OpenCompose abre el stream del compositor de contenido.
func (c *RelayClient) OpenCompose(ctx context.Context, template string, compose domain.ComposeContext) (io.ReadCloser, error) {
	return c.openStream(ctx, "/api/compose", map[string]any{
		"template": template,
		"context":  compose,
	})
}

// OpenAnalyze abre el stream de análisis de texto.
func (c *RelayClient) OpenAnalyze(ctx context.Context, question, docContext string) (io.ReadCloser, error) {
	return c.openStream(ctx, "/api/analyze-text", map[string]string{
		"question": question,
		"context":  docContext,
	})
}

// Save implementa Saver contra el endpoint de guardado.
func (c *RelayClient) Save(ctx context.Context, userID string, messages domain.Transcript) error {
	resp, err := c.postJSON(ctx, "/api/save_chat", map[string]any{
		"userId":   userID,
		"messages": messages,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	return nil
}

// LoadTranscript trae el transcript más reciente del usuario.
func (c *RelayClient) LoadTranscript(ctx context.Context, userID string) (domain.Transcript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chat_history/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}

	var messages domain.Transcript
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return messages, nil
}

// CreateEvent dispara el canal fuera de banda y devuelve el mensaje final.
func (c *RelayClient) CreateEvent(ctx context.Context, token, text string) (string, error) {
	resp, err := c.postJSON(ctx, "/api/create-event", map[string]string{
		"token": token,
		"text":  text,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("create event: %s", result.Error)
	}
	return result.Message, nil
}

// ListEvents trae los próximos eventos del calendario del usuario.
func (c *RelayClient) ListEvents(ctx context.Context, token string) ([]calendar.Event, error) {
	resp, err := c.postJSON(ctx, "/api/get-events", map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}

	var events []calendar.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("relay: %s (status=%d)", apiErr.Error, resp.StatusCode)
	}
	return fmt.Errorf("relay: status=%d", resp.StatusCode)
}
