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

package template

import (
	"sort"

	"github.com/goccy/go-json"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/ngvtien/config-pilot-sub003/pkg/fieldpath"
	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
)

// BuildInput carries everything one filtered-schema rebuild needs. The
// original schema and document may be nil; shapes then derive from the
// tree nodes alone. Field and config paths may still carry resource-key
// prefixes from older recordings and are normalized against ResourceKey
// before matching.
type BuildInput struct {
	ResourceKey string
	Original    *extv1.JSONSchemaProps
	Document    *schema.Document
	Nodes       []*schema.TreeNode
	Fields      []Field
	Configs     map[string]FieldConfig
}

// BuildSchema reconstructs the JSON Schema covering exactly the selected
// fields and their ancestors. It is a pure function: the same input
// yields a deeply equal result, and a full rebuild runs on every
// selection change rather than patching previous output.
//
// A property enters the result when its path is selected or when a
// selected path lies beneath it. Directly selected leaves keep their
// full fragment from the original schema; ancestors recurse into
// qualifying children only. apiVersion and kind appear only when
// explicitly selected. metadata appears when selected itself or through
// a descendant, with a bare selection carrying the original metadata
// shape. Field overrides win over schema-derived values and stored
// configuration wins over both.
func BuildSchema(in BuildInput) *extv1.JSONSchemaProps {
	out := &extv1.JSONSchemaProps{
		Type:       "object",
		Properties: map[string]extv1.JSONSchemaProps{},
	}

	b := newBuilder(in)
	if b.selected.Len() == 0 {
		return out
	}

	for _, node := range in.Nodes {
		if node == nil {
			continue
		}
		switch node.Path {
		case "apiVersion", "kind", "metadata":
			continue
		}
		if !b.included(node.Path) {
			continue
		}
		out.Properties[node.Name] = *b.buildNode(node)
	}

	for _, name := range []string{"apiVersion", "kind"} {
		if b.selected.Has(name) {
			out.Properties[name] = *b.scalarSchema(name)
		}
	}
	if metadata := b.buildMetadata(); metadata != nil {
		out.Properties["metadata"] = *metadata
	}
	return out
}

type builder struct {
	original *extv1.JSONSchemaProps
	doc      *schema.Document
	index    map[string]*schema.TreeNode
	selected sets.Set[string]
	fields   map[string]Field
	configs  map[string]FieldConfig
}

func newBuilder(in BuildInput) *builder {
	b := &builder{
		doc:      in.Document,
		index:    schema.NodeIndex(in.Nodes),
		selected: sets.New[string](),
		fields:   map[string]Field{},
		configs:  map[string]FieldConfig{},
	}
	b.original, _ = schema.Resolve(in.Original, in.Document, nil)

	for _, field := range in.Fields {
		path := fieldpath.Normalize(field.Path, in.ResourceKey)
		if path == "" {
			continue
		}
		b.selected.Insert(path)
		b.fields[path] = field
	}

	// Normalization can collapse distinct raw paths onto one; visiting
	// them sorted keeps the surviving record deterministic.
	rawPaths := make([]string, 0, len(in.Configs))
	for rawPath := range in.Configs {
		rawPaths = append(rawPaths, rawPath)
	}
	sort.Strings(rawPaths)
	for _, rawPath := range rawPaths {
		cfg := in.Configs[rawPath].normalize()
		if cfg.IsZero() {
			continue
		}
		b.configs[fieldpath.Normalize(rawPath, in.ResourceKey)] = cfg
	}
	return b
}

func (b *builder) included(path string) bool {
	return b.selected.Has(path) || b.hasSelectedDescendant(path)
}

func (b *builder) hasSelectedDescendant(path string) bool {
	for selectedPath := range b.selected {
		if fieldpath.IsAncestor(path, selectedPath) {
			return true
		}
	}
	return false
}

// buildNode shapes one included node. Directly selected leaves carry
// their full original fragment; nodes with selected descendants are
// rebuilt with qualifying children only.
func (b *builder) buildNode(node *schema.TreeNode) *extv1.JSONSchemaProps {
	prop := b.baseSchema(node)

	field, hasField := b.fields[node.Path]
	if hasField {
		if field.Type != "" {
			prop.Type = field.Type
		}
		field.ApplySchema(prop)
	}
	if prop.Type == "" || prop.Type == schema.TypeUnknown {
		prop.Type = "object"
	}

	if prop.Type == "array" && hasField && field.Items != nil {
		if items, _ := schema.Resolve(field.Items, b.doc, nil); items != nil {
			prop.Items = &extv1.JSONSchemaPropsOrArray{Schema: items}
		}
	}

	if b.hasSelectedDescendant(node.Path) && len(node.Children) > 0 {
		prop.Type = "object"
		prop.Properties = map[string]extv1.JSONSchemaProps{}
		var required []string
		for _, child := range node.Children {
			if child == nil || !b.included(child.Path) {
				continue
			}
			prop.Properties[child.Name] = *b.buildNode(child)
			if child.Required {
				required = append(required, child.Name)
			}
		}
		sort.Strings(required)
		prop.Required = required
	}

	b.applyConfig(node.Path, prop)
	return prop
}

// baseSchema copies the node's fragment from the resolved original
// schema, falling back to tree-node metadata when the original document
// is absent or does not carry the path.
func (b *builder) baseSchema(node *schema.TreeNode) *extv1.JSONSchemaProps {
	if fragment := b.originalFragment(node.Path); fragment != nil {
		return fragment.DeepCopy()
	}

	prop := &extv1.JSONSchemaProps{Description: node.Description}
	if node.Type != "" && node.Type != schema.TypeUnknown {
		prop.Type = node.Type
	}
	if len(node.Enum) > 0 {
		(&Constraints{Enum: node.Enum}).apply(prop)
	}
	if node.Type == "array" && node.Items != nil {
		prop.Items = &extv1.JSONSchemaPropsOrArray{Schema: node.Items.DeepCopy()}
	}
	return prop
}

func (b *builder) originalFragment(path string) *extv1.JSONSchemaProps {
	if b.original == nil || path == "" {
		return nil
	}
	current := b.original
	for _, segment := range fieldpath.Segments(path) {
		child, ok := current.Properties[segment]
		if !ok {
			return nil
		}
		current = &child
	}
	return current
}

// scalarSchema shapes apiVersion and kind, which carry the original
// schema's declared form when present and degrade to a bare string.
func (b *builder) scalarSchema(name string) *extv1.JSONSchemaProps {
	prop := &extv1.JSONSchemaProps{Type: "string"}
	if fragment := b.originalFragment(name); fragment != nil {
		prop = fragment.DeepCopy()
		if prop.Type == "" {
			prop.Type = "string"
		}
	}
	if field, ok := b.fields[name]; ok {
		if field.Type != "" {
			prop.Type = field.Type
		}
		field.ApplySchema(prop)
	}
	b.applyConfig(name, prop)
	return prop
}

// buildMetadata assembles the metadata property. Selected descendants
// win over a bare selection so the output carries only the chosen
// children; a bare selection carries the original metadata shape merged
// with any override stored for metadata as a whole.
func (b *builder) buildMetadata() *extv1.JSONSchemaProps {
	hasDescendant := b.hasSelectedDescendant("metadata")
	if !hasDescendant && !b.selected.Has("metadata") {
		return nil
	}

	if node := b.index["metadata"]; node != nil && hasDescendant {
		return b.buildNode(node)
	}

	fragment := b.originalFragment("metadata")
	if fragment == nil {
		if node := b.index["metadata"]; node != nil {
			return b.buildNode(node)
		}
		prop := &extv1.JSONSchemaProps{Type: "object"}
		b.applyConfig("metadata", prop)
		return prop
	}

	prop := fragment.DeepCopy()
	if prop.Type == "" {
		prop.Type = "object"
	}
	b.applyConfig("metadata", prop)
	return prop
}

func (b *builder) applyConfig(path string, prop *extv1.JSONSchemaProps) {
	cfg, ok := b.configs[path]
	if !ok {
		return
	}
	if cfg.Title != "" {
		prop.Title = cfg.Title
	}
	if cfg.Description != "" {
		prop.Description = cfg.Description
	}
	if cfg.Format != "" {
		prop.Format = cfg.Format
	}
	if cfg.Default != nil {
		if raw, err := json.Marshal(cfg.Default); err == nil {
			prop.Default = &extv1.JSON{Raw: raw}
		}
	}
}
