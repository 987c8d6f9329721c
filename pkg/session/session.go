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

// Package session drives the field-selection editing flow for one
// resource: it owns the schema tree, tracks which properties are
// promoted to template fields, applies configuration overrides through
// the injected stores and rebuilds the filtered schema on demand.
//
// A session is used sequentially, mirroring a UI event loop. It is not
// safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/ngvtien/config-pilot-sub003/pkg/fieldpath"
	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
	"github.com/ngvtien/config-pilot-sub003/pkg/template"
)

// ErrUnknownPath rejects selection of a path the schema tree does not
// carry.
var ErrUnknownPath = errors.New("unknown field path")

// Session is the editing state for one resource within a template.
type Session struct {
	resourceKey string
	doc         *schema.Document
	root        *extv1.JSONSchemaProps
	nodes       []*schema.TreeNode
	index       map[string]*schema.TreeNode
	fields      map[string]template.Field
	configs     template.ConfigStore
	selections  template.SelectionStore
	logger      *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithConfigStore injects the store holding per-field overrides.
func WithConfigStore(store template.ConfigStore) Option {
	return func(s *Session) { s.configs = store }
}

// WithSelectionStore injects the store persisting promoted fields.
func WithSelectionStore(store template.SelectionStore) Option {
	return func(s *Session) { s.selections = store }
}

// WithTree supplies a prebuilt schema tree instead of deriving one from
// the document.
func WithTree(nodes []*schema.TreeNode) Option {
	return func(s *Session) { s.nodes = nodes }
}

// WithLogger attaches a logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New builds a session for resourceKey over doc. A nil document yields
// an empty tree unless WithTree supplies one.
func New(resourceKey string, doc *schema.Document, opts ...Option) (*Session, error) {
	s := &Session{
		resourceKey: resourceKey,
		doc:         doc,
		fields:      map[string]template.Field{},
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.configs == nil {
		s.configs = template.NewMemoryConfigStore()
	}
	if s.selections == nil {
		s.selections = template.NewMemorySelectionStore()
	}

	if root := doc.Root(); root != nil {
		props, err := schema.PropsFromMap(root)
		if err != nil {
			return nil, fmt.Errorf("reading schema for %q: %w", resourceKey, err)
		}
		s.root = props
	}
	if s.nodes == nil && s.root != nil {
		s.nodes = schema.BuildTree(s.root, doc)
	}
	s.index = schema.NodeIndex(s.nodes)
	return s, nil
}

// ResourceKey returns the identity this session edits.
func (s *Session) ResourceKey() string { return s.resourceKey }

// Tree returns the selectable schema tree.
func (s *Session) Tree() []*schema.TreeNode { return s.nodes }

// Node looks a tree node up by path.
func (s *Session) Node(path string) (*schema.TreeNode, bool) {
	node, ok := s.index[path]
	return node, ok
}

// Toggle flips the selection state of path and reports the new state.
func (s *Session) Toggle(path string) (bool, error) {
	if _, selected := s.fields[path]; selected {
		delete(s.fields, path)
		return false, nil
	}
	node, ok := s.index[path]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownPath, path)
	}
	s.fields[path] = template.FieldFromNode(node)
	return true, nil
}

// Select promotes every given path. Unknown paths are rejected before
// any state changes.
func (s *Session) Select(paths ...string) error {
	nodes := make([]*schema.TreeNode, len(paths))
	for i, path := range paths {
		node, ok := s.index[path]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPath, path)
		}
		nodes[i] = node
	}
	for _, node := range nodes {
		if _, selected := s.fields[node.Path]; !selected {
			s.fields[node.Path] = template.FieldFromNode(node)
		}
	}
	return nil
}

// Deselect removes the given paths from the selection. Unknown paths
// are ignored.
func (s *Session) Deselect(paths ...string) {
	for _, path := range paths {
		delete(s.fields, path)
	}
}

// IsSelected reports whether path is currently promoted.
func (s *Session) IsSelected(path string) bool {
	_, ok := s.fields[path]
	return ok
}

// Selected returns the selected paths in stable order.
func (s *Session) Selected() []string {
	paths := make([]string, 0, len(s.fields))
	for path := range s.fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Fields returns the promoted fields ordered by path.
func (s *Session) Fields() []template.Field {
	fields := make([]template.Field, 0, len(s.fields))
	for _, path := range s.Selected() {
		fields = append(fields, s.fields[path])
	}
	return fields
}

// Configure stores a sparse override for path and keeps the promoted
// field's mirror attributes in sync. It returns the normalized record
// and whether an entry remains in the store.
func (s *Session) Configure(path string, cfg template.FieldConfig) (template.FieldConfig, bool) {
	stored, kept := s.configs.Set(s.resourceKey, path, cfg)

	if field, ok := s.fields[path]; ok {
		field.Title = stored.Title
		field.Format = stored.Format
		field.Default = stored.Default
		if stored.Description != "" {
			field.Description = stored.Description
		} else if node, ok := s.index[path]; ok {
			field.Description = node.Description
		}
		s.fields[path] = field
	}
	return stored, kept
}

// Config returns the stored override for path.
func (s *Session) Config(path string) (template.FieldConfig, bool) {
	return s.configs.Get(s.resourceKey, path)
}

// Preview rebuilds the filtered schema from the current selection. Every
// call runs the full rebuild; there is no incremental state to go stale.
func (s *Session) Preview() *extv1.JSONSchemaProps {
	return template.BuildSchema(template.BuildInput{
		ResourceKey: s.resourceKey,
		Original:    s.root,
		Document:    s.doc,
		Nodes:       s.nodes,
		Fields:      s.Fields(),
		Configs:     s.configs.List(s.resourceKey),
	})
}

// Save persists the current selection.
func (s *Session) Save() {
	s.selections.SetFields(s.resourceKey, s.Fields())
}

// Load restores a previously saved selection. Recorded paths may carry
// resource-key prefixes from older recordings; they are normalized
// against the current tree and paths the tree no longer carries are
// dropped.
func (s *Session) Load() {
	s.fields = map[string]template.Field{}
	for _, field := range s.selections.Fields(s.resourceKey) {
		path := fieldpath.Normalize(field.Path, s.resourceKey)
		if _, ok := s.index[path]; !ok {
			s.logger.Debug("dropping stale selection",
				"resource", s.resourceKey,
				"path", field.Path,
			)
			continue
		}
		field.Path = path
		s.fields[path] = field
	}
}
