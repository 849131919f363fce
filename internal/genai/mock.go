// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// MockBackend generates deterministic canned findings without network
// access. Selected by mock mode at construction time, and used as the
// default when no API key is configured.
type MockBackend struct{}

// Name identifies the backend in logs and prompt log entries.
func (MockBackend) Name() string { return "mock" }

// Generate returns templated content derived from the query, with one
// source and one image so downstream aggregation has material to work with.
func (MockBackend) Generate(ctx context.Context, query string, _ types.GenerationConfig) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	slug := url.QueryEscape(query)
	return Response{
		Content: fmt.Sprintf("Research findings for %q: recent coverage indicates steady developments in this area, with analysts noting both near-term activity and longer-term structural shifts.", query),
		Sources: []types.Source{
			{Title: fmt.Sprintf("Coverage: %s", query), URL: "https://news.example.com/search?q=" + slug},
		},
		Images: []types.Image{
			{URL: "https://images.example.com/" + slug + ".jpg", Alt: query},
		},
	}, nil
}
