// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vector

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- MemoryIndex ---

func seedIndex(t *testing.T) *MemoryIndex {
	t.Helper()
	idx := NewMemoryIndex()
	docs := []Document{
		{ID: "1", Title: "Acme profile", Content: "Acme builds industrial robotics and automation platforms"},
		{ID: "2", Title: "Competitor brief", Content: "Initech competes in workflow automation software"},
		{ID: "3", Title: "Unrelated", Content: "Cooking recipes for autumn"},
	}
	for _, d := range docs {
		require.NoError(t, idx.Upsert(context.Background(), d))
	}
	return idx
}

func TestMemoryIndexSearchRanksByOverlap(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Search(context.Background(), "Acme robotics automation", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	assert.Equal(t, "Acme profile", matches[0].Title)
	for _, m := range matches {
		assert.NotEqual(t, "Unrelated", m.Title)
	}
}

func TestMemoryIndexSearchTopK(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Search(context.Background(), "automation", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMemoryIndexSearchNoMatches(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Search(context.Background(), "zebra migration", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryIndexUpsertReplacesByID(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, Document{ID: "d", Title: "old", Content: "first version"}))
	require.NoError(t, idx.Upsert(ctx, Document{ID: "d", Title: "new", Content: "second version"}))

	matches, err := idx.Search(ctx, "version", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Title)
}

// --- HTTPEmbedder ---

func TestHTTPEmbedderNormalizes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "hello", req.Prompt)

		json.NewEncoder(w).Encode(embeddingResponse{Embedding: []float64{3, 4}})
	}))
	defer ts.Close()

	e := NewHTTPEmbedder(ts.URL, "")
	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 2)

	// (3,4) normalized is (0.6, 0.8).
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)

	var mag float64
	for _, v := range vec {
		mag += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-6)
}

func TestHTTPEmbedderEmptyVector(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{})
	}))
	defer ts.Close()

	e := NewHTTPEmbedder(ts.URL, "")
	_, err := e.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty vector")
}

func TestHTTPEmbedderServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("model not found"))
	}))
	defer ts.Close()

	e := NewHTTPEmbedder(ts.URL, "")
	_, err := e.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestNormalizeZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	assert.Equal(t, v, normalize(v))
}
