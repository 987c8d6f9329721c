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

// Package template turns user-selected schema properties into template
// parameters and rebuilds the filtered schema that describes exactly the
// selected surface of a resource.
package template

import (
	"github.com/goccy/go-json"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/utils/ptr"

	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
)

// Field is a schema property promoted to a template parameter. Path
// matches the originating tree node and is the identifier under which
// selection state persists.
type Field struct {
	Path        string                 `json:"path"`
	Name        string                 `json:"name"`
	Title       string                 `json:"title,omitempty"`
	Type        string                 `json:"type,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Description string                 `json:"description,omitempty"`
	Format      string                 `json:"format,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Constraints *Constraints           `json:"constraints,omitempty"`
	Items       *extv1.JSONSchemaProps `json:"items,omitempty"`
}

// Constraints carries the validation attributes a field can impose on
// its values.
type Constraints struct {
	Enum      []string `json:"enum,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinLength *int64   `json:"minLength,omitempty"`
	MaxLength *int64   `json:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
}

// FieldFromNode promotes a tree node to a template field. Title stays
// empty until the user edits it; DisplayTitle falls back to the name.
func FieldFromNode(node *schema.TreeNode) Field {
	if node == nil {
		return Field{}
	}
	field := Field{
		Path:        node.Path,
		Name:        node.Name,
		Required:    node.Required,
		Description: node.Description,
	}
	if node.Type != "" && node.Type != schema.TypeUnknown {
		field.Type = node.Type
	}
	if len(node.Enum) > 0 {
		field.Constraints = &Constraints{Enum: append([]string(nil), node.Enum...)}
	}
	if node.Items != nil {
		field.Items = node.Items.DeepCopy()
	}
	return field
}

// DisplayTitle returns the user-editable title, defaulting to the field
// name.
func (f Field) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

// ApplySchema writes the field's recorded attributes onto prop. Empty
// values leave prop untouched.
func (f Field) ApplySchema(prop *extv1.JSONSchemaProps) {
	if prop == nil {
		return
	}
	if f.Title != "" {
		prop.Title = f.Title
	}
	if f.Description != "" {
		prop.Description = f.Description
	}
	if f.Format != "" {
		prop.Format = f.Format
	}
	if f.Default != nil {
		if raw, err := json.Marshal(f.Default); err == nil {
			prop.Default = &extv1.JSON{Raw: raw}
		}
	}
	if f.Constraints != nil {
		f.Constraints.apply(prop)
	}
}

func (c *Constraints) apply(prop *extv1.JSONSchemaProps) {
	if len(c.Enum) > 0 {
		enum := make([]extv1.JSON, 0, len(c.Enum))
		for _, value := range c.Enum {
			raw, err := json.Marshal(value)
			if err != nil {
				continue
			}
			enum = append(enum, extv1.JSON{Raw: raw})
		}
		prop.Enum = enum
	}
	if c.Pattern != "" {
		prop.Pattern = c.Pattern
	}
	if c.MinLength != nil {
		prop.MinLength = ptr.To(*c.MinLength)
	}
	if c.MaxLength != nil {
		prop.MaxLength = ptr.To(*c.MaxLength)
	}
	if c.Minimum != nil {
		prop.Minimum = ptr.To(*c.Minimum)
	}
	if c.Maximum != nil {
		prop.Maximum = ptr.To(*c.Maximum)
	}
}
