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
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/loader"
	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/view"
	"github.com/ngvtien/config-pilot-sub003/pkg/source"
)

// SchemaOptions holds the options for the schema command.
type SchemaOptions struct {
	File        string
	Schemas     string
	ResourceKey string
}

func NewSchemaCommand(cli *CLI) *cobra.Command {
	var opts SchemaOptions

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the filtered schema for a template resource",
		Long: Highlight("config-pilot schema -f <template> --schemas <path>") + "\n\n" +
			"Reconstruct the schema covering exactly the fields a template\n" +
			"selects, with stored field configuration applied.\n\n" +
			"The output is the values.schema.json document for the resource:\n" +
			"YAML by default, JSON with -o json.\n\n" +
			"Examples:\n" +
			"  # Print the filtered schema of a single-resource template\n" +
			"  config-pilot schema -f web-app.yaml --schemas ./schemas\n\n" +
			"  # Pick one resource from a multi-resource template\n" +
			"  config-pilot schema -f web-app.yaml --schemas ./schemas --resource apps/v1/Deployment\n",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSchema(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Path to a template definition file")
	cmd.Flags().StringVar(&opts.Schemas, "schemas", "", "Path to a schema file or directory")
	cmd.Flags().StringVar(&opts.ResourceKey, "resource", "", "Resource key to print (apiVersion/Kind)")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("schemas")

	return cmd
}

func RunSchema(ctx context.Context, cli *CLI, opts SchemaOptions) error {
	td, err := loader.LoadTemplateDefinition(opts.File)
	if err != nil {
		return err
	}

	res, err := pickResource(td, opts.ResourceKey)
	if err != nil {
		return err
	}

	provider, err := source.NewFileProvider(opts.Schemas)
	if err != nil {
		return err
	}

	sess, err := resourceSession(provider, *res)
	if err != nil {
		return err
	}

	view.NewSchemaView(cli.Viewer).Render(view.SchemaResult{
		ResourceKey: res.ResourceKey(),
		Schema:      sess.Preview(),
	})
	return nil
}

// pickResource resolves which template resource a command operates on.
// A single-resource template needs no --resource flag.
func pickResource(td *v1alpha1.TemplateDefinition, key string) (*v1alpha1.TemplateResource, error) {
	if len(td.Spec.Resources) == 0 {
		return nil, fmt.Errorf("template %q has no resources", td.Name)
	}

	if key == "" {
		if len(td.Spec.Resources) == 1 {
			return &td.Spec.Resources[0], nil
		}
		keys := make([]string, 0, len(td.Spec.Resources))
		for i := range td.Spec.Resources {
			keys = append(keys, td.Spec.Resources[i].ResourceKey())
		}
		return nil, fmt.Errorf("template has %d resources, pick one with --resource: %s",
			len(td.Spec.Resources), strings.Join(keys, ", "))
	}

	for i := range td.Spec.Resources {
		if td.Spec.Resources[i].ResourceKey() == key {
			return &td.Spec.Resources[i], nil
		}
	}
	return nil, fmt.Errorf("template has no resource %q", key)
}
