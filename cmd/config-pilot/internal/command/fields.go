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

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/view"
	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
	"github.com/ngvtien/config-pilot-sub003/pkg/session"
	"github.com/ngvtien/config-pilot-sub003/pkg/source"
)

// FieldsOptions holds the options for the fields command.
type FieldsOptions struct {
	Path        string
	ResourceKey string
	Search      string
	Type        string
}

func NewFieldsCommand(cli *CLI) *cobra.Command {
	var opts FieldsOptions

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the selectable field paths of a schema",
		Long: Highlight("config-pilot fields -f <path>") + "\n\n" +
			"List the selectable field paths of Kubernetes resource schemas.\n\n" +
			"The path may be a CRD manifest, an OpenAPI/Swagger document, a plain\n" +
			"JSON Schema file, or a directory of such files. Every resource found\n" +
			"is listed with its field paths, types and descriptions.\n\n" +
			"Examples:\n" +
			"  # List the fields of a CRD\n" +
			"  config-pilot fields -f widgets-crd.yaml\n\n" +
			"  # Search a schema directory for replica-related fields\n" +
			"  config-pilot fields -f ./schemas --search replicas\n",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunFields(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to a schema file or directory")
	cmd.Flags().StringVar(&opts.ResourceKey, "resource", "", "Limit output to one resource key (apiVersion/Kind)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Fuzzy-match field paths")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Limit output to fields of this schema type")
	cmd.MarkFlagRequired("file")

	return cmd
}

func RunFields(ctx context.Context, cli *CLI, opts FieldsOptions) error {
	provider, err := source.NewFileProvider(opts.Path)
	if err != nil {
		return err
	}

	var keys []string
	if opts.ResourceKey != "" {
		keys = []string{opts.ResourceKey}
	} else {
		for _, info := range provider.Resources() {
			keys = append(keys, info.Key)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("no resources found in %q", opts.Path)
	}

	result := view.FieldsResult{}
	for _, key := range keys {
		doc, err := provider.Schema(key)
		if err != nil {
			return err
		}
		sess, err := session.New(key, doc)
		if err != nil {
			return err
		}
		result.Resources = append(result.Resources, view.ResourceFields{
			Key:    key,
			Fields: fieldRows(sess.Tree(), opts),
		})
	}

	view.NewFieldsView(cli.Viewer).Render(result)
	return nil
}

// fieldRows flattens the schema tree into table rows, applying the
// --type and --search filters.
func fieldRows(nodes []*schema.TreeNode, opts FieldsOptions) []view.FieldRow {
	var rows []view.FieldRow
	for _, node := range nodes {
		node.Walk(func(n *schema.TreeNode) bool {
			if matchesField(n, opts) {
				rows = append(rows, view.FieldRow{
					Path:        n.Path,
					Type:        n.Type,
					Required:    n.Required,
					Description: n.Description,
				})
			}
			return true
		})
	}
	return rows
}

func matchesField(n *schema.TreeNode, opts FieldsOptions) bool {
	if opts.Type != "" && n.Type != opts.Type {
		return false
	}
	return opts.Search == "" || fuzzy.MatchFold(opts.Search, n.Path)
}
