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

// Package generate renders deployment artifacts from template
// definitions: manifest skeletons, Helm chart scaffolding, kustomize
// overlays and the values schema that documents the selected fields.
//
// All generators are pure text producers; callers decide where the
// bytes land.
package generate

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
	"github.com/ngvtien/config-pilot-sub003/pkg/fieldpath"
	"github.com/ngvtien/config-pilot-sub003/pkg/template"
)

// RenderedResource pairs a template resource with the filtered schema
// describing its selected surface.
type RenderedResource struct {
	Resource v1alpha1.TemplateResource
	Schema   *extv1.JSONSchemaProps
}

// resourceIdentity returns the apiVersion and kind a manifest is
// generated under, from the explicit members or the resource key.
func resourceIdentity(res v1alpha1.TemplateResource) (apiVersion, kind string, err error) {
	if res.APIVersion != "" && res.Kind != "" {
		return res.APIVersion, res.Kind, nil
	}
	return template.SplitResourceKey(res.ResourceKey())
}

// effectiveDefault returns the default value for a field with any
// config override applied. Nil means no default is recorded.
func effectiveDefault(res v1alpha1.TemplateResource, field v1alpha1.TemplateFieldSpec) any {
	if cfg, ok := res.Configs[field.Path]; ok {
		if value := decodeJSONValue(cfg.Default); value != nil {
			return value
		}
	}
	return decodeJSONValue(field.Default)
}

// leafFields returns the fields no other selected field descends from,
// in selection order. Only leaves carry values; their ancestors exist
// as structure.
func leafFields(fields []v1alpha1.TemplateFieldSpec) []v1alpha1.TemplateFieldSpec {
	leaves := make([]v1alpha1.TemplateFieldSpec, 0, len(fields))
	for i, field := range fields {
		leaf := true
		for j, other := range fields {
			if i != j && fieldpath.IsAncestor(field.Path, other.Path) {
				leaf = false
				break
			}
		}
		if leaf {
			leaves = append(leaves, field)
		}
	}
	return leaves
}

// zeroValue returns the placeholder written for a field that has no
// default. Untyped fields get an explicit null.
func zeroValue(fieldType string) any {
	switch fieldType {
	case "string":
		return ""
	case "integer":
		return int64(0)
	case "number":
		return float64(0)
	case "boolean":
		return false
	case "array":
		return []any{}
	case "object":
		return map[string]any{}
	}
	return nil
}

// uniqueName returns base, or base with the lowest numeric suffix that
// is not yet taken, and marks the result as used.
func uniqueName(base, sep string, used sets.Set[string]) string {
	name := base
	for n := 2; used.Has(name); n++ {
		name = base + sep + strconv.Itoa(n)
	}
	used.Insert(name)
	return name
}

func decodeJSONValue(raw *extv1.JSON) any {
	if raw == nil || len(raw.Raw) == 0 {
		return nil
	}
	var value any
	if err := json.Unmarshal(raw.Raw, &value); err != nil {
		return nil
	}
	return value
}

func resourceError(res v1alpha1.TemplateResource, err error) error {
	return fmt.Errorf("resource %q: %w", res.ResourceKey(), err)
}
