// Copyright 2025 The Config Pilot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/loader"
	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/view"
	"github.com/ngvtien/config-pilot-sub003/pkg/generate"
	"github.com/ngvtien/config-pilot-sub003/pkg/source"
)

// GenerateOptions holds the options for the generate command.
type GenerateOptions struct {
	File         string
	Schemas      string
	Format       string
	OutputDir    string
	ChartName    string
	ChartVersion string
}

func NewGenerateCommand(cli *CLI) *cobra.Command {
	var opts GenerateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate deployment artifacts from a template",
		Long: Highlight("config-pilot generate -f <template> --schemas <path>") + "\n\n" +
			"Generate deployment artifacts from a template definition: plain\n" +
			"manifests with the selected fields' defaults, a Helm chart skeleton\n" +
			"(Chart.yaml, values.yaml, values.schema.json, templates/), or a\n" +
			"kustomize base.\n\n" +
			"Examples:\n" +
			"  # Plain manifests into the current directory\n" +
			"  config-pilot generate -f web-app.yaml --schemas ./schemas\n\n" +
			"  # A Helm chart skeleton\n" +
			"  config-pilot generate -f web-app.yaml --schemas ./schemas --format helm -d ./chart\n",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunGenerate(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Path to a template definition file")
	cmd.Flags().StringVar(&opts.Schemas, "schemas", "", "Path to a schema file or directory")
	cmd.Flags().StringVar(&opts.Format, "format", "yaml", "Artifact format. One of: (yaml | helm | kustomize)")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "d", ".", "Directory to write artifacts to")
	cmd.Flags().StringVar(&opts.ChartName, "chart-name", "", "Helm chart name (defaults to the template name)")
	cmd.Flags().StringVar(&opts.ChartVersion, "chart-version", "", "Helm chart version")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("schemas")

	return cmd
}

func RunGenerate(ctx context.Context, cli *CLI, opts GenerateOptions) error {
	td, err := loader.LoadTemplateDefinition(opts.File)
	if err != nil {
		return err
	}
	if err := td.Validate(); err != nil {
		return fmt.Errorf("invalid template %q: %w", opts.File, err)
	}

	provider, err := source.NewFileProvider(opts.Schemas)
	if err != nil {
		return err
	}

	rendered, err := renderResources(provider, td)
	if err != nil {
		return err
	}

	format := strings.ToLower(opts.Format)
	var files map[string][]byte
	switch format {
	case "", "yaml":
		format = "yaml"
		files, err = generate.Manifests(rendered)
	case "helm":
		name := opts.ChartName
		if name == "" {
			name = td.Name
		}
		files, err = generate.HelmChart(name, opts.ChartVersion, rendered)
	case "kustomize":
		files, err = generate.Kustomization(rendered)
	default:
		return fmt.Errorf("unsupported format %q, expected one of: yaml, helm, kustomize", opts.Format)
	}
	if err != nil {
		return err
	}

	cli.Logger().Debug("writing artifacts", "format", format, "directory", opts.OutputDir, "files", len(files))
	names, err := writeFiles(opts.OutputDir, files)
	if err != nil {
		return err
	}

	view.NewGenerateView(cli.Viewer).Render(view.GenerateResult{
		Format:    format,
		Directory: opts.OutputDir,
		Files:     names,
	})
	return nil
}

// writeFiles writes the rendered artifacts under dir, creating nested
// directories (templates/ for charts) as needed. Names come back sorted.
func writeFiles(dir string, files map[string][]byte) ([]string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return names, nil
}
