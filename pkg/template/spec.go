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

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
	"github.com/ngvtien/config-pilot-sub003/pkg/fieldpath"
)

// FieldsFromSpec converts the serialized fields of a template resource
// into in-memory fields, preserving order.
func FieldsFromSpec(specs []v1alpha1.TemplateFieldSpec) []Field {
	if len(specs) == 0 {
		return nil
	}
	fields := make([]Field, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, fieldFromSpec(spec))
	}
	return fields
}

func fieldFromSpec(spec v1alpha1.TemplateFieldSpec) Field {
	field := Field{
		Path:        spec.Path,
		Name:        spec.Name,
		Title:       spec.Title,
		Type:        spec.Type,
		Required:    spec.Required,
		Description: spec.Description,
		Format:      spec.Format,
		Default:     decodeJSON(spec.Default),
	}
	if field.Name == "" {
		segments := fieldpath.Segments(spec.Path)
		if len(segments) > 0 {
			field.Name = segments[len(segments)-1]
		}
	}
	if spec.Constraints != nil {
		field.Constraints = &Constraints{
			Enum:      append([]string(nil), spec.Constraints.Enum...),
			Pattern:   spec.Constraints.Pattern,
			MinLength: spec.Constraints.MinLength,
			MaxLength: spec.Constraints.MaxLength,
			Minimum:   spec.Constraints.Minimum,
			Maximum:   spec.Constraints.Maximum,
		}
	}
	if spec.Items != nil {
		field.Items = spec.Items.DeepCopy()
	}
	return field
}

// FieldsToSpec converts in-memory fields back to their serialized form,
// preserving order.
func FieldsToSpec(fields []Field) []v1alpha1.TemplateFieldSpec {
	if len(fields) == 0 {
		return nil
	}
	specs := make([]v1alpha1.TemplateFieldSpec, 0, len(fields))
	for _, field := range fields {
		spec := v1alpha1.TemplateFieldSpec{
			Path:        field.Path,
			Name:        field.Name,
			Title:       field.Title,
			Type:        field.Type,
			Required:    field.Required,
			Description: field.Description,
			Format:      field.Format,
			Default:     encodeJSON(field.Default),
		}
		if field.Constraints != nil {
			spec.Constraints = &v1alpha1.FieldConstraints{
				Enum:      append([]string(nil), field.Constraints.Enum...),
				Pattern:   field.Constraints.Pattern,
				MinLength: field.Constraints.MinLength,
				MaxLength: field.Constraints.MaxLength,
				Minimum:   field.Constraints.Minimum,
				Maximum:   field.Constraints.Maximum,
			}
		}
		if field.Items != nil {
			spec.Items = field.Items.DeepCopy()
		}
		specs = append(specs, spec)
	}
	return specs
}

// ConfigsFromSpec converts serialized per-path overrides into in-memory
// form. All-empty entries are dropped.
func ConfigsFromSpec(specs map[string]v1alpha1.FieldConfigSpec) map[string]FieldConfig {
	if len(specs) == 0 {
		return nil
	}
	configs := make(map[string]FieldConfig, len(specs))
	for path, spec := range specs {
		cfg := FieldConfig{
			Default:     decodeJSON(spec.Default),
			Title:       spec.Title,
			Description: spec.Description,
			Format:      spec.Format,
		}
		if cfg.IsZero() {
			continue
		}
		configs[path] = cfg
	}
	if len(configs) == 0 {
		return nil
	}
	return configs
}

// ConfigsToSpec converts in-memory overrides to their serialized form.
// All-empty entries are dropped rather than written out as empty shells.
func ConfigsToSpec(configs map[string]FieldConfig) map[string]v1alpha1.FieldConfigSpec {
	if len(configs) == 0 {
		return nil
	}
	specs := make(map[string]v1alpha1.FieldConfigSpec, len(configs))
	for path, cfg := range configs {
		if cfg.IsZero() {
			continue
		}
		specs[path] = v1alpha1.FieldConfigSpec{
			Default:     encodeJSON(cfg.Default),
			Title:       cfg.Title,
			Description: cfg.Description,
			Format:      cfg.Format,
		}
	}
	if len(specs) == 0 {
		return nil
	}
	return specs
}

// ResourceToSpec serializes one resource's selection state. Fields keep
// their selection order; configs are written sparsely.
func ResourceToSpec(meta ResourceMeta, fields []Field, configs map[string]FieldConfig) v1alpha1.TemplateResource {
	res := v1alpha1.TemplateResource{
		APIVersion: meta.APIVersion,
		Kind:       meta.Kind,
		Fields:     FieldsToSpec(fields),
		Configs:    ConfigsToSpec(configs),
	}
	if meta.Key != "" && meta.Key != ResourceKey(meta.APIVersion, meta.Kind) {
		res.Key = meta.Key
	}
	return res
}

// SortedConfigPaths returns the override paths of a serialized resource
// in lexical order, for deterministic iteration.
func SortedConfigPaths(specs map[string]v1alpha1.FieldConfigSpec) []string {
	paths := make([]string, 0, len(specs))
	for path := range specs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func decodeJSON(raw *extv1.JSON) any {
	if raw == nil || len(raw.Raw) == 0 {
		return nil
	}
	var value any
	if err := json.Unmarshal(raw.Raw, &value); err != nil {
		return nil
	}
	return value
}

func encodeJSON(value any) *extv1.JSON {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return &extv1.JSON{Raw: raw}
}
