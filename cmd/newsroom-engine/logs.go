// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsroom-engine/internal/logstore"
	"github.com/pdiddy/newsroom-engine/pkg/types"
)

var logsCmd = &cobra.Command{
	Use:   "logs [query]",
	Short: "Search the prompt log",
	Long: `Logs searches the prompt log recorded during enrichment using FTS5
full-text search and structured filters. Without a query or filter the most
recent entries are listed.`,
	RunE: runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	logsDir, _ := cmd.Flags().GetString("logs-dir")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := logstore.NewSQLiteStore(types.LogStoreConfig{LogsDir: logsDir})
	if err != nil {
		return err
	}
	defer store.Close()

	provider, _ := cmd.Flags().GetString("provider")
	status, _ := cmd.Flags().GetString("status")

	query := logstore.Query{
		Text:       strings.Join(args, " "),
		Provider:   provider,
		Status:     logstore.EntryStatus(status),
		MaxResults: limit,
	}

	entries, err := store.Search(context.Background(), query)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatLogsOutput(entries, jsonOutput)
}

func formatLogsOutput(entries []logstore.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-25s  %-10s  %-9s  %-8s  %s\n",
		"ID", "Timestamp", "Provider", "Status", "Articles", "Prompt")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 130))

	for _, e := range entries {
		prompt := e.OriginalPrompt
		if len(prompt) > 40 {
			prompt = prompt[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-25s  %-10s  %-9s  %-8d  %s\n",
			e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.Provider, e.Status, e.ArticleCount, prompt)
	}

	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

func init() {
	logsCmd.Flags().String("logs-dir", "logs", "base directory for the prompt log (contains index/)")
	logsCmd.Flags().String("provider", "", "filter by generation provider")
	logsCmd.Flags().String("status", "", "filter by entry status: pending, completed, error")
	logsCmd.Flags().Int("limit", 0, "maximum entries (0 = use default)")
	logsCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(logsCmd)
}
