// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/newsroom-engine/internal/enrich"
	"github.com/pdiddy/newsroom-engine/internal/logstore"
	"github.com/pdiddy/newsroom-engine/internal/plan"
	"github.com/pdiddy/newsroom-engine/internal/vector"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the research plan without executing tasks",
	Long: `Plan runs context enrichment and research planning, then prints the
resulting outline. No research tasks are executed and nothing is written to
the output directory. Prompt logging is off in preview mode.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfigFromFlags(cmd)
	settings := settingsFromFlags(cmd)
	settings.EnablePromptLogging = false

	ctx := context.Background()
	index, err := previewIndex(ctx, cfg, settings)
	if err != nil {
		return err
	}
	defer index.Close()

	enricher := enrich.New(index, logstore.NewMemoryStore(), "preview", cfg.Vector.TopK, zap.NewNop())
	planner := plan.New(enricher)

	researchPlan, _, err := planner.Plan(ctx, settings)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPlanOutput(researchPlan, jsonOutput)
}

// previewIndex returns the real vector index only when lookup is enabled and
// a DSN is configured; otherwise an empty in-memory index stands in.
func previewIndex(ctx context.Context, cfg types.PipelineConfig, settings types.ResearchSettings) (vector.Index, error) {
	if !settings.VectorDBEnabled || cfg.Vector.DSN == "" {
		return vector.NewMemoryIndex(), nil
	}
	embedder := vector.NewHTTPEmbedder(cfg.Vector.EmbeddingURL, cfg.Vector.EmbeddingModel)
	pg, err := vector.NewPGIndex(ctx, cfg.Vector, embedder)
	if err != nil {
		return nil, fmt.Errorf("opening vector index: %w", err)
	}
	return pg, nil
}

func formatPlanOutput(p *types.ResearchPlan, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Fprintf(os.Stdout, "%s\n", p.TableOfContents.Title)
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for i, s := range p.TableOfContents.Sections {
		fmt.Fprintf(os.Stdout, "%d. %s\n   %s\n", i+1, s.Title, s.Description)
	}
	fmt.Fprintf(os.Stdout, "\nplan %s  status: %s\n", p.ID, p.Status)
	return nil
}

func init() {
	addSettingsFlags(planCmd)
	planCmd.Flags().Bool("json", false, "output the plan as JSON")

	rootCmd.AddCommand(planCmd)
}
