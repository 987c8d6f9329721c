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

package generate

import (
	"github.com/gobuffalo/flect"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
	"github.com/ngvtien/config-pilot-sub003/pkg/fieldpath"
)

// Manifest renders the skeleton object for one template resource:
// apiVersion and kind, a placeholder name, common labels, and each
// selected field's effective default planted at its path.
func Manifest(res v1alpha1.TemplateResource) (map[string]any, error) {
	apiVersion, kind, err := resourceIdentity(res)
	if err != nil {
		return nil, resourceError(res, err)
	}

	obj := map[string]any{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata": map[string]any{
			"name": flect.Dasherize(kind) + "-sample",
		},
	}
	if err := unstructured.SetNestedStringMap(obj, CommonLabels(""), "metadata", "labels"); err != nil {
		return nil, resourceError(res, err)
	}

	for _, field := range res.Fields {
		value := effectiveDefault(res, field)
		if value == nil {
			continue
		}
		plantValue(obj, field.Path, value)
	}
	return obj, nil
}

// ManifestYAML renders the skeleton object as YAML.
func ManifestYAML(res v1alpha1.TemplateResource) ([]byte, error) {
	obj, err := Manifest(res)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(obj)
}

// plantValue sets value at the dotted path, creating intermediate maps.
// Paths blocked by a non-map intermediate are skipped.
func plantValue(obj map[string]any, path string, value any) {
	_ = unstructured.SetNestedField(obj, value, fieldpath.Segments(path)...)
}
