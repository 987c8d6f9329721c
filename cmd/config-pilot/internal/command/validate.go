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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/loader"
	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/view"
	"github.com/ngvtien/config-pilot-sub003/pkg/fieldpath"
	"github.com/ngvtien/config-pilot-sub003/pkg/generate"
	"github.com/ngvtien/config-pilot-sub003/pkg/session"
	"github.com/ngvtien/config-pilot-sub003/pkg/source"
	"github.com/ngvtien/config-pilot-sub003/pkg/template"
)

// ValidateOptions holds the options for the validate command.
type ValidateOptions struct {
	File       string
	Schemas    string
	ValuesFile string
}

func NewValidateCommand(cli *CLI) *cobra.Command {
	var opts ValidateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate template definitions",
		Long: Highlight("config-pilot validate -f <path>") + "\n\n" +
			"Validate template definitions by file or directory.\n\n" +
			"Always checks the definition itself (resource identity, field paths,\n" +
			"types). With --schemas, additionally checks that every selected field\n" +
			"path exists in the resource's schema tree. With --values, checks a\n" +
			"values file against the template's generated schema.\n\n" +
			"Examples:\n" +
			"  # Validate a single template\n" +
			"  config-pilot validate -f web-app.yaml\n\n" +
			"  # Validate all templates in a directory against their schemas\n" +
			"  config-pilot validate -f . --schemas ./schemas\n\n" +
			"  # Also check a values file\n" +
			"  config-pilot validate -f web-app.yaml --schemas ./schemas --values values.yaml\n",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunValidate(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Path to a template file or directory")
	cmd.Flags().StringVar(&opts.Schemas, "schemas", "", "Path to a schema file or directory")
	cmd.Flags().StringVar(&opts.ValuesFile, "values", "", "Path to a values file to check against the template's schema")
	cmd.MarkFlagRequired("file")

	return cmd
}

func RunValidate(ctx context.Context, cli *CLI, opts ValidateOptions) error {
	results, err := loader.LoadTemplateDefinitionsDetailed(opts.File)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		return fmt.Errorf("no YAML files found in %q", opts.File)
	}

	var provider source.Provider
	if opts.Schemas != "" {
		provider, err = source.NewFileProvider(opts.Schemas)
		if err != nil {
			return err
		}
	}

	resultView := view.ValidateResult{FileCount: len(results)}

	for _, result := range results {
		if result.Err != nil {
			resultView.Errors = append(resultView.Errors, view.ValidateFileError{File: result.Path, Message: result.Err.Error()})
			continue
		}

		if err := validateTemplate(result.Def, provider); err != nil {
			resultView.Errors = append(resultView.Errors, view.ValidateFileError{File: result.Path, Message: err.Error()})
		}
	}

	if opts.ValuesFile != "" {
		resultView.FileCount++
		if err := validateValuesFile(provider, results, opts.ValuesFile); err != nil {
			resultView.Errors = append(resultView.Errors, view.ValidateFileError{File: opts.ValuesFile, Message: err.Error()})
		}
	}

	view.NewValidateView(cli.Viewer).Render(resultView)
	if resultView.HasErrors() {
		return errors.New("")
	}
	return nil
}

// validateTemplate checks the definition itself and, when a schema
// provider is available, that every selected path exists in the
// resource's schema tree.
func validateTemplate(td *v1alpha1.TemplateDefinition, provider source.Provider) error {
	if err := td.Validate(); err != nil {
		return err
	}
	if provider == nil {
		return nil
	}

	for _, res := range td.Spec.Resources {
		if err := validateResourcePaths(provider, res); err != nil {
			return err
		}
	}
	return nil
}

func validateResourcePaths(provider source.Provider, res v1alpha1.TemplateResource) error {
	doc, err := provider.Schema(res.ResourceKey())
	if err != nil {
		return err
	}
	sess, err := session.New(res.ResourceKey(), doc)
	if err != nil {
		return err
	}

	for _, field := range res.Fields {
		if _, ok := sess.Node(fieldpath.Normalize(field.Path, res.ResourceKey())); !ok {
			return fmt.Errorf("field path %q not found in schema for %q", field.Path, res.ResourceKey())
		}
	}
	for _, path := range template.SortedConfigPaths(res.Configs) {
		if _, ok := sess.Node(fieldpath.Normalize(path, res.ResourceKey())); !ok {
			return fmt.Errorf("config path %q not found in schema for %q", path, res.ResourceKey())
		}
	}
	return nil
}

// validateValuesFile checks a values document against the schema the
// template would generate. It needs schemas to rebuild that schema and
// exactly one template to check against.
func validateValuesFile(provider source.Provider, results []loader.TemplateDefinitionLoadResult, valuesFile string) error {
	if provider == nil {
		return fmt.Errorf("values validation requires --schemas")
	}

	var defs []*v1alpha1.TemplateDefinition
	for _, result := range results {
		if result.Err == nil {
			defs = append(defs, result.Def)
		}
	}
	if len(defs) != 1 {
		return fmt.Errorf("values validation requires exactly one template, found %d", len(defs))
	}

	rendered, err := renderResources(provider, defs[0])
	if err != nil {
		return err
	}
	schemaData, err := generate.ChartValuesSchema(rendered)
	if err != nil {
		return err
	}

	valuesData, err := os.ReadFile(valuesFile)
	if err != nil {
		return fmt.Errorf("failed to read values file: %w", err)
	}
	return generate.ValidateValues(schemaData, valuesData)
}
