// Package ollama implements the reply provider against a local Ollama
// server's generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Pradipwasre/xumo-support-ai/internal/config"
	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// Local models can be slow on first load, so the transport timeout is
// generous; per-request deadlines come from the caller's context.
const clientTimeout = 120 * time.Second

// Provider implements models.ReplyProvider using Ollama.
type Provider struct {
	cfg    config.OllamaConfig
	client *http.Client
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: clientTimeout},
	}
}

func (p *Provider) Name() string { return "ollama" }

type generateRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (p *Provider) Complete(ctx context.Context, req models.ReplyRequest) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   p.cfg.Model,
		System:  req.System,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: generateOptions{NumPredict: req.MaxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	u := p.cfg.BaseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", classifyError(err)
	}
	defer resp.Body.Close()

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if genResp.Error != "" {
			msg = genResp.Error
		}
		return "", fmt.Errorf("%w: %s", models.ErrProviderUnavailable, msg)
	}

	if genResp.Response == "" {
		return "", models.ErrEmptyReply
	}
	return genResp.Response, nil
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}

	return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
}

var _ models.ReplyProvider = (*Provider)(nil)
