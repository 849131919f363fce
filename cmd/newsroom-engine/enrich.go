// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/newsroom-engine/internal/enrich"
	"github.com/pdiddy/newsroom-engine/internal/logstore"
	"github.com/pdiddy/newsroom-engine/internal/plan"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Print the enhanced research prompt",
	Long: `Enrich runs context enrichment for the configured organization profile
and prints the enhanced prompt that planning would use. Useful for inspecting
what the similarity lookup and profile context contribute before a run.`,
	RunE: runEnrich,
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfigFromFlags(cmd)
	settings := settingsFromFlags(cmd)
	settings.EnablePromptLogging = false

	basePrompt := settings.BasePrompt
	if basePrompt == "" {
		basePrompt = plan.DefaultBasePrompt
	}

	ctx := context.Background()
	index, err := previewIndex(ctx, cfg, settings)
	if err != nil {
		return err
	}
	defer index.Close()

	enricher := enrich.New(index, logstore.NewMemoryStore(), "preview", cfg.Vector.TopK, zap.NewNop())
	enhanced, _ := enricher.Enhance(ctx, basePrompt, settings)

	fmt.Fprintln(os.Stdout, enhanced)
	return nil
}

func init() {
	addSettingsFlags(enrichCmd)

	rootCmd.AddCommand(enrichCmd)
}
