// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/newsroom-engine/internal/enrich"
	"github.com/pdiddy/newsroom-engine/internal/execute"
	"github.com/pdiddy/newsroom-engine/internal/genai"
	"github.com/pdiddy/newsroom-engine/internal/logstore"
	"github.com/pdiddy/newsroom-engine/internal/pipeline"
	"github.com/pdiddy/newsroom-engine/internal/plan"
	"github.com/pdiddy/newsroom-engine/internal/vector"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full research pipeline and compile an article",
	Long: `Run executes all pipeline stages in order: context enrichment, research
planning, task decomposition, task execution, and article compilation. The
compiled article is written to the output directory as a YAML artifact.

Use --mock to run against in-memory capabilities (no API key, database, or
embedding service required).`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfigFromFlags(cmd)
	settings := settingsFromFlags(cmd)

	logger := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync()
	}

	observer := func(stage pipeline.Stage, message string) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", stage, message)
	}

	ctx := context.Background()
	orch, cleanup, err := buildOrchestrator(ctx, cfg, observer, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := orch.Run(ctx, settings)
	if err != nil {
		return err
	}

	path, err := pipeline.SaveArtifacts(cfg.Orchestrator.OutputDir, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nArticle: %s\n", out.Article.Title)
	fmt.Fprintf(os.Stdout, "Summary: %s\n", out.Article.Summary)
	fmt.Fprintf(os.Stdout, "Sources: %d  Images: %d  Tasks: %d\n",
		len(out.Article.Sources), len(out.Article.Images), len(out.Tasks))
	fmt.Fprintf(os.Stdout, "Saved to %s\n", path)
	return nil
}

// buildOrchestrator wires capabilities per the pipeline config. In mock mode
// every external dependency is replaced with an in-memory equivalent. The
// returned cleanup closes whatever was opened and is always safe to call.
func buildOrchestrator(ctx context.Context, cfg types.PipelineConfig, observer pipeline.Observer, logger *zap.Logger) (*pipeline.Orchestrator, func(), error) {
	var (
		backend genai.Backend
		index   vector.Index
		store   logstore.Store
	)

	if cfg.Orchestrator.MockMode {
		backend = genai.MockBackend{}
		index = vector.NewMemoryIndex()
		store = logstore.NewMemoryStore()
	} else {
		if cfg.Generation.APIKey == "" {
			return nil, func() {}, fmt.Errorf("no API key configured: set --api-key, NEWSROOM_ENGINE_API_KEY, or .secrets/anthropic-api-key")
		}
		backend = &genai.ClaudeBackend{
			APIKey: cfg.Generation.APIKey,
			Client: &http.Client{Timeout: cfg.Generation.Timeout},
		}

		if cfg.Vector.DSN != "" {
			embedder := vector.NewHTTPEmbedder(cfg.Vector.EmbeddingURL, cfg.Vector.EmbeddingModel)
			pg, err := vector.NewPGIndex(ctx, cfg.Vector, embedder)
			if err != nil {
				return nil, func() {}, fmt.Errorf("opening vector index: %w", err)
			}
			index = pg
		} else {
			index = vector.NewMemoryIndex()
		}

		s, err := logstore.NewSQLiteStore(cfg.LogStore)
		if err != nil {
			index.Close()
			return nil, func() {}, fmt.Errorf("opening prompt log: %w", err)
		}
		store = s
	}

	cleanup := func() {
		store.Close()
		index.Close()
	}

	enricher := enrich.New(index, store, backend.Name(), cfg.Vector.TopK, logger)
	planner := plan.New(enricher)
	executor := execute.New(backend, cfg.Generation)

	orch := pipeline.New(planner, executor, store, observer, cfg.Orchestrator.Workers, logger)
	return orch, cleanup, nil
}

// --- shared flag/config helpers ---

// stringSetting resolves a string option: an explicitly set flag wins, then
// the viper key, then the flag's default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return viper.GetInt(key)
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	return viper.GetBool(key)
}

func sliceSetting(cmd *cobra.Command, flag, key string) []string {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetStringSlice(flag)
		return v
	}
	return viper.GetStringSlice(key)
}

func settingsFromFlags(cmd *cobra.Command) types.ResearchSettings {
	return types.ResearchSettings{
		BasePrompt:          stringSetting(cmd, "base-prompt", "settings.base_prompt"),
		PromptPrefix:        viper.GetString("settings.prompt_prefix"),
		PromptSuffix:        viper.GetString("settings.prompt_suffix"),
		CompanyName:         stringSetting(cmd, "company", "settings.company_name"),
		Industry:            stringSetting(cmd, "industry", "settings.industry"),
		KeyProducts:         sliceSetting(cmd, "products", "settings.key_products"),
		Competitors:         sliceSetting(cmd, "competitors", "settings.competitors"),
		Interests:           sliceSetting(cmd, "interests", "settings.interests"),
		VectorDBEnabled:     boolSetting(cmd, "vector-db", "settings.vector_db_enabled"),
		EnablePromptLogging: boolSetting(cmd, "log-prompts", "settings.enable_prompt_logging"),
	}
}

func pipelineConfigFromFlags(cmd *cobra.Command) types.PipelineConfig {
	mock, _ := cmd.Flags().GetBool("mock")

	cfg := types.PipelineConfig{
		Generation: types.GenerationConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   time.Duration(intSetting(cmd, "timeout", "generation.timeout_seconds")) * time.Second,
				UserAgent: "newsroom-engine/" + version,
			},
			Model:      stringSetting(cmd, "model", "generation.model"),
			APIKey:     secretDefault("anthropic-api-key", stringSetting(cmd, "api-key", "generation.api_key")),
			MaxRetries: intSetting(cmd, "max-retries", "generation.max_retries"),
		},
		Vector: types.VectorConfig{
			DSN:            secretDefault("postgres-dsn", viper.GetString("vector.dsn")),
			Table:          viper.GetString("vector.table"),
			TopK:           intSetting(cmd, "top-k", "vector.top_k"),
			EmbeddingURL:   secretDefault("embedding-url", viper.GetString("vector.embedding_url")),
			EmbeddingModel: viper.GetString("vector.embedding_model"),
		},
		LogStore: types.LogStoreConfig{
			LogsDir:    stringSetting(cmd, "logs-dir", "log_store.logs_dir"),
			MaxResults: viper.GetInt("log_store.max_results"),
		},
		Orchestrator: types.OrchestratorConfig{
			Workers:   intSetting(cmd, "workers", "orchestrator.workers"),
			OutputDir: stringSetting(cmd, "output-dir", "orchestrator.output_dir"),
			MockMode:  mock,
		},
	}
	return cfg
}

// addSettingsFlags registers the organization-profile flags shared by run,
// plan, and enrich.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-prompt", "", "research instruction (empty uses the built-in default)")
	cmd.Flags().String("company", "", "organization name")
	cmd.Flags().String("industry", "", "organization industry")
	cmd.Flags().StringSlice("products", nil, "key products (comma-separated)")
	cmd.Flags().StringSlice("competitors", nil, "competitors (comma-separated)")
	cmd.Flags().StringSlice("interests", nil, "topics of interest (comma-separated)")
	cmd.Flags().Bool("vector-db", false, "enable vector similarity lookup during enrichment")
	cmd.Flags().Bool("log-prompts", false, "record enhanced prompts in the prompt log")
	cmd.Flags().String("logs-dir", "logs", "base directory for the prompt log (contains index/)")
	cmd.Flags().Int("top-k", 5, "number of similarity matches used for enrichment")
	cmd.Flags().Bool("verbose", false, "enable debug logging to stderr")
}

func init() {
	addSettingsFlags(runCmd)
	runCmd.Flags().Bool("mock", false, "run with in-memory capabilities (no external services)")
	runCmd.Flags().String("model", "claude-sonnet-4-5-20250929", "AI model identifier for task execution")
	runCmd.Flags().String("api-key", "", "API key (overrides .secrets/anthropic-api-key)")
	runCmd.Flags().Int("max-retries", 3, "retry attempts for failed API calls")
	runCmd.Flags().Int("timeout", 120, "HTTP request timeout in seconds")
	runCmd.Flags().Int("workers", 1, "concurrent task executors (1 = sequential)")
	runCmd.Flags().String("output-dir", "output/articles", "directory for compiled article artifacts")

	rootCmd.AddCommand(runCmd)
}
