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

// Package schema loads Kubernetes schema documents, resolves the
// references inside them and exposes the schema as a navigable tree of
// selectable properties.
//
// A schema document may be a plain JSON Schema, an OpenAPI document or a
// CustomResourceDefinition; the three shapes keep their reference
// definitions in different places and Document knows all of them.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"sigs.k8s.io/yaml"
)

// ErrEmptyDocument is returned when a schema document carries no content.
var ErrEmptyDocument = errors.New("empty schema document")

// Document is a decoded schema document. A nil Document behaves as an
// empty one: lookups miss and the root is nil.
type Document struct {
	raw  map[string]any
	root map[string]any
}

// NewDocument wraps an already-decoded document.
func NewDocument(raw map[string]any) *Document {
	return &Document{raw: raw}
}

// NewDocumentWithRoot wraps a decoded document with an explicit root
// schema. Lookup still resolves references against the whole document,
// which lets one CRD document back a Document per served version.
func NewDocumentWithRoot(raw, root map[string]any) *Document {
	return &Document{raw: raw, root: root}
}

// LoadDocument decodes a JSON or YAML schema document.
func LoadDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	raw := map[string]any{}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decoding schema document: %w", err)
		}
		return &Document{raw: raw}, nil
	}
	if err := yaml.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decoding schema document: %w", err)
	}
	return &Document{raw: raw}, nil
}

// Raw returns the whole decoded document.
func (d *Document) Raw() map[string]any {
	if d == nil {
		return nil
	}
	return d.raw
}

// Lookup dereferences a "#/..." reference against the document. It tries,
// in order: the literal path from the document root, the same path under
// the CRD storage shape (spec.versions[0].schema.openAPIV3Schema), and
// the final path segment under components.schemas (OpenAPI 3).
func (d *Document) Lookup(ref string) (map[string]any, bool) {
	if d == nil || d.raw == nil {
		return nil, false
	}
	rest, ok := strings.CutPrefix(ref, "#/")
	if !ok || rest == "" {
		return nil, false
	}
	segments := strings.Split(rest, "/")

	if def, ok := walkKeys(d.raw, segments); ok {
		return def, true
	}
	if storage, ok := walkKeys(d.raw, []string{"spec", "versions", "0", "schema", "openAPIV3Schema"}); ok {
		if def, ok := walkKeys(storage, segments); ok {
			return def, true
		}
	}
	last := segments[len(segments)-1]
	if def, ok := walkKeys(d.raw, []string{"components", "schemas", last}); ok {
		return def, true
	}
	return nil, false
}

// Root returns the resource schema carried by the document. An explicit
// root set at construction wins. Otherwise CRD documents are unwrapped to
// their served version's openAPIV3Schema (falling back to the legacy
// spec.validation shape); a bare openAPIV3Schema wrapper is unwrapped
// too; anything else is returned as-is.
func (d *Document) Root() map[string]any {
	if d == nil || d.raw == nil {
		return nil
	}
	if d.root != nil {
		return d.root
	}
	if spec, ok := d.raw["spec"].(map[string]any); ok {
		if versions, ok := spec["versions"].([]any); ok && len(versions) > 0 {
			pick, _ := versions[0].(map[string]any)
			for _, v := range versions {
				version, ok := v.(map[string]any)
				if !ok {
					continue
				}
				if served, _ := version["served"].(bool); served {
					pick = version
					break
				}
			}
			if root, ok := walkKeys(pick, []string{"schema", "openAPIV3Schema"}); ok {
				return root
			}
		}
		if root, ok := walkKeys(spec, []string{"validation", "openAPIV3Schema"}); ok {
			return root
		}
	}
	if root, ok := d.raw["openAPIV3Schema"].(map[string]any); ok {
		return root
	}
	return d.raw
}

// walkKeys follows segments through nested maps. A numeric segment
// indexes into a slice, which covers the versions list of a CRD.
func walkKeys(root map[string]any, segments []string) (map[string]any, bool) {
	var current any = root
	for _, segment := range segments {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := parseIndex(segment)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	out, ok := current.(map[string]any)
	return out, ok
}

func parseIndex(segment string) (int, error) {
	idx := 0
	if segment == "" {
		return -1, fmt.Errorf("empty index")
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return -1, fmt.Errorf("not an index: %q", segment)
		}
		idx = idx*10 + int(r-'0')
	}
	return idx, nil
}
