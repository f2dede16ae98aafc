package models

import (
	"context"
	"errors"
)

// Sentinel errors reported by reply providers. The pipeline maps all of them
// to the deterministic fallback; handlers map them to response codes.
var (
	ErrProviderUnavailable = errors.New("reply provider unavailable")
	ErrInferenceTimeout    = errors.New("reply inference timeout")
	ErrEmptyReply          = errors.New("reply provider returned empty response")
)

// ReplyRequest is one prompt sent to a text-generation backend.
type ReplyRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// ReplyProvider is the boundary to an external text-generation service.
// The pipeline treats the reply as an opaque plain-text string and never
// depends on provider internals. Never call specific providers directly —
// always inject this interface.
type ReplyProvider interface {
	// Complete sends a prompt and returns the provider's plain-text reply.
	Complete(ctx context.Context, req ReplyRequest) (string, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
}
