// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai abstracts the text-generation capability the pipeline uses
// to answer research queries. Each backend takes one search query and
// returns generated content with cited sources and images.
package genai

import (
	"context"

	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// Backend answers a single research query. Implementations handle their own
// transport and timeout; callers treat every call as potentially slow and
// fallible. The Strategy pattern lets tests supply a mock.
type Backend interface {
	Name() string
	Generate(ctx context.Context, query string, cfg types.GenerationConfig) (Response, error)
}

// Response is the structured output of one generation call. Any field may
// be empty; callers apply their own defaults.
type Response struct {
	Content string         `json:"content" yaml:"content"`
	Sources []types.Source `json:"sources" yaml:"sources"`
	Images  []types.Image  `json:"images" yaml:"images"`
}
