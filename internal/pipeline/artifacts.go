// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// artifact is the YAML document written after a successful run: the
// article plus the plan and task list it was compiled from.
type artifact struct {
	Article any `yaml:"article"`
	Plan    any `yaml:"plan"`
	Tasks   any `yaml:"tasks"`
}

// SaveArtifacts writes the run output as a YAML file named after the
// article id in outputDir, creating the directory if needed. It returns the
// written path.
func SaveArtifacts(outputDir string, out *RunOutput) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := yaml.Marshal(artifact{
		Article: out.Article,
		Plan:    out.Plan,
		Tasks:   out.Tasks,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling run artifact: %w", err)
	}

	path := filepath.Join(outputDir, out.Article.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing run artifact: %w", err)
	}
	return path, nil
}
