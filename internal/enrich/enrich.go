// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich builds the context-enhanced prompt that precedes every
// pipeline run. Enrichment prefers a vector similarity lookup over the
// organization's context documents and falls back to a textual rendering of
// the configured profile, so the pipeline never stalls on missing vector
// data. Enrichment never fails: any internal error degrades to returning
// the base prompt unchanged.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/newsroom-engine/internal/logstore"
	"github.com/pdiddy/newsroom-engine/internal/vector"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

// DefaultTopK is the number of similarity matches folded into the context
// block.
const DefaultTopK = 5

// instructionBlock is appended to every enhanced prompt. Downstream parsing
// of generation output assumes exactly these field names.
const instructionBlock = `Respond with a JSON array of article objects. Each object must have these fields:
title, summary, content, url, source, sourceUrl, imageUrl, publishedAt, category, tags.
Do not include any text outside the JSON array.`

// Enricher augments base prompts with organization context. The vector
// index and log store are optional; a nil index disables similarity lookup
// and a nil store disables prompt logging.
type Enricher struct {
	index    vector.Index
	store    logstore.Store
	provider string
	topK     int
	logger   *zap.Logger
}

// New creates an Enricher. provider tags prompt log entries with the
// generation backend in use.
func New(index vector.Index, store logstore.Store, provider string, topK int, logger *zap.Logger) *Enricher {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{index: index, store: store, provider: provider, topK: topK, logger: logger}
}

// Enhance builds the enhanced prompt for basePrompt and records a prompt
// log entry when logging is enabled. It returns the enhanced prompt and the
// log entry ID (empty when no entry was written). Enhance never fails;
// degradable errors are logged and absorbed.
func (e *Enricher) Enhance(ctx context.Context, basePrompt string, settings types.ResearchSettings) (string, string) {
	contextBlock := e.buildContext(ctx, settings)
	if strings.TrimSpace(contextBlock) == "" {
		// The profile fallback guarantees non-empty context; an empty block
		// means something upstream went badly wrong, so degrade.
		e.logger.Warn("enrichment produced empty context, returning base prompt")
		return basePrompt, ""
	}

	var b strings.Builder
	if settings.PromptPrefix != "" {
		b.WriteString(settings.PromptPrefix)
		b.WriteString("\n\n")
	}
	b.WriteString("CONTEXT:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\nBASE PROMPT:\n")
	b.WriteString(basePrompt)
	if settings.PromptSuffix != "" {
		b.WriteString("\n\n")
		b.WriteString(settings.PromptSuffix)
	}
	b.WriteString("\n\n")
	b.WriteString(instructionBlock)

	enhanced := b.String()
	logID := e.logPrompt(ctx, basePrompt, enhanced, settings)
	return enhanced, logID
}

// buildContext returns the similarity-lookup context when enabled and
// productive, and the profile rendering otherwise.
func (e *Enricher) buildContext(ctx context.Context, settings types.ResearchSettings) string {
	if settings.VectorDBEnabled && e.index != nil {
		matches, err := e.index.Search(ctx, lookupQuery(settings), e.topK)
		if err != nil {
			e.logger.Warn("vector lookup failed, falling back to profile context", zap.Error(err))
		} else if len(matches) > 0 {
			parts := make([]string, len(matches))
			for i, m := range matches {
				parts[i] = fmt.Sprintf("%s: %s", m.Title, m.Content)
			}
			return strings.Join(parts, "\n\n")
		}
	}
	return profileContext(settings)
}

// lookupQuery builds the composite similarity query from the organization
// profile.
func lookupQuery(settings types.ResearchSettings) string {
	parts := []string{settings.CompanyName, settings.Industry}
	parts = append(parts, settings.KeyProducts...)
	parts = append(parts, settings.Interests...)

	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// profileContext renders the organization profile as text. Always non-empty,
// even for zero-value settings.
func profileContext(settings types.ResearchSettings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", orUnspecified(settings.CompanyName))
	fmt.Fprintf(&b, "Industry: %s\n", orUnspecified(settings.Industry))
	fmt.Fprintf(&b, "Key products: %s\n", listOrUnspecified(settings.KeyProducts))
	fmt.Fprintf(&b, "Competitors: %s\n", listOrUnspecified(settings.Competitors))
	fmt.Fprintf(&b, "Interests: %s", listOrUnspecified(settings.Interests))
	return b.String()
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}

func listOrUnspecified(items []string) string {
	if len(items) == 0 {
		return "unspecified"
	}
	return strings.Join(items, ", ")
}

// logPrompt writes a prompt log entry on a best-effort basis and returns
// its ID. Failures are logged and swallowed.
func (e *Enricher) logPrompt(ctx context.Context, original, enhanced string, settings types.ResearchSettings) string {
	if !settings.EnablePromptLogging || e.store == nil {
		return ""
	}

	entry := logstore.Entry{
		OriginalPrompt: original,
		EnhancedPrompt: enhanced,
		Provider:       e.provider,
		ArticleCount:   0,
		Status:         logstore.EntryPending,
	}
	entry.ID = newEntryID()

	if err := e.store.Write(ctx, entry); err != nil {
		e.logger.Warn("prompt log write failed", zap.Error(err))
		return ""
	}
	return entry.ID
}
