// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// ResearchSettings is the configured organization profile and prompt wiring
// that drives a pipeline run. Every field is optional; stages document their
// defaults.
type ResearchSettings struct {
	// BasePrompt is the research instruction. When empty the planner falls
	// back to a fixed default instruction.
	BasePrompt string `json:"base_prompt" yaml:"base_prompt"`

	// PromptPrefix and PromptSuffix are prepended/appended verbatim during
	// enrichment.
	PromptPrefix string `json:"prompt_prefix,omitempty" yaml:"prompt_prefix,omitempty"`
	PromptSuffix string `json:"prompt_suffix,omitempty" yaml:"prompt_suffix,omitempty"`

	// CompanyName, Industry, KeyProducts, Competitors, and Interests describe
	// the organization the research is performed for.
	CompanyName string   `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Industry    string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	KeyProducts []string `json:"key_products,omitempty" yaml:"key_products,omitempty"`
	Competitors []string `json:"competitors,omitempty" yaml:"competitors,omitempty"`
	Interests   []string `json:"interests,omitempty" yaml:"interests,omitempty"`

	// VectorDBEnabled turns on the similarity lookup during enrichment.
	VectorDBEnabled bool `json:"vector_db_enabled" yaml:"vector_db_enabled"`

	// EnablePromptLogging records prompt log entries during enrichment.
	EnablePromptLogging bool `json:"enable_prompt_logging" yaml:"enable_prompt_logging"`
}

// IndustryOrDefault returns the configured industry or "General".
func (s ResearchSettings) IndustryOrDefault() string {
	if strings.TrimSpace(s.Industry) == "" {
		return "General"
	}
	return s.Industry
}
