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
	"fmt"
	"strings"

	"github.com/gobuffalo/flect"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/sets"
	"sigs.k8s.io/yaml"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
)

// defaultChartVersion is used when the caller does not pin one.
const defaultChartVersion = "0.1.0"

type chartEntry struct {
	resource  v1alpha1.TemplateResource
	schema    *extv1.JSONSchemaProps
	valuesKey string
	fileName  string
}

// HelmChart renders a chart skeleton for the template's resources:
// Chart.yaml, values.yaml with the selected fields' defaults,
// values.schema.json describing them, and one template per resource
// with the selected leaf paths replaced by values references. The
// rendered files are returned keyed by their path inside the chart.
func HelmChart(name, version string, resources []RenderedResource) (map[string][]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("chart name must not be empty")
	}
	if version == "" {
		version = defaultChartVersion
	}

	entries, err := chartEntries(resources)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, len(entries)+3)

	chartYAML, err := yaml.Marshal(map[string]any{
		"apiVersion":  "v2",
		"name":        name,
		"description": "Kubernetes manifests generated from the " + name + " template.",
		"type":        "application",
		"version":     version,
	})
	if err != nil {
		return nil, err
	}
	files["Chart.yaml"] = chartYAML

	values := map[string]any{}
	for _, entry := range entries {
		values[entry.valuesKey] = valuesTree(entry.resource)
	}
	valuesYAML, err := yaml.Marshal(values)
	if err != nil {
		return nil, err
	}
	files["values.yaml"] = valuesYAML

	valuesSchema, err := chartValuesSchema(entries)
	if err != nil {
		return nil, err
	}
	files["values.schema.json"] = valuesSchema

	for _, entry := range entries {
		manifest, err := templatedManifest(name, entry)
		if err != nil {
			return nil, err
		}
		files["templates/"+entry.fileName+".yaml"] = manifest
	}
	return files, nil
}

// ChartValuesSchema renders only the values.schema.json document for the
// given resources, so a values file can be checked without rendering the
// whole chart.
func ChartValuesSchema(resources []RenderedResource) ([]byte, error) {
	entries, err := chartEntries(resources)
	if err != nil {
		return nil, err
	}
	return chartValuesSchema(entries)
}

// chartEntries assigns each resource its values key and file name.
// Collisions between resources of the same kind get numeric suffixes.
func chartEntries(resources []RenderedResource) ([]chartEntry, error) {
	entries := make([]chartEntry, 0, len(resources))
	usedKeys := sets.New[string]()
	usedFiles := sets.New[string]()
	for _, rendered := range resources {
		_, kind, err := resourceIdentity(rendered.Resource)
		if err != nil {
			return nil, resourceError(rendered.Resource, err)
		}
		entries = append(entries, chartEntry{
			resource:  rendered.Resource,
			schema:    rendered.Schema,
			valuesKey: uniqueName(flect.Camelize(kind), "", usedKeys),
			fileName:  uniqueName(flect.Dasherize(kind), "-", usedFiles),
		})
	}
	return entries, nil
}

// chartValuesSchema nests each resource's filtered schema under its
// values key.
func chartValuesSchema(entries []chartEntry) ([]byte, error) {
	properties := make(map[string]extv1.JSONSchemaProps, len(entries))
	for _, entry := range entries {
		if entry.schema == nil {
			properties[entry.valuesKey] = extv1.JSONSchemaProps{Type: "object"}
			continue
		}
		properties[entry.valuesKey] = *entry.schema
	}
	return ValuesSchema(&extv1.JSONSchemaProps{
		Type:       "object",
		Properties: properties,
	})
}

// templatedManifest renders the manifest skeleton for one resource with
// every selected leaf path replaced by its values reference.
func templatedManifest(chartName string, entry chartEntry) ([]byte, error) {
	obj, err := Manifest(entry.resource)
	if err != nil {
		return nil, err
	}
	if err := unstructured.SetNestedStringMap(obj, CommonLabels(chartName), "metadata", "labels"); err != nil {
		return nil, resourceError(entry.resource, err)
	}

	named := false
	for _, field := range leafFields(entry.resource.Fields) {
		if field.Path == "metadata.name" {
			named = true
		}
		ref := "{{ .Values." + entry.valuesKey + "." + field.Path + " }}"
		plantValue(obj, field.Path, ref)
	}
	if !named {
		plantValue(obj, "metadata.name", "{{ .Release.Name }}-"+entry.fileName)
	}

	raw, err := yaml.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return unquoteTemplateRefs(raw), nil
}

// unquoteTemplateRefs strips the quoting yaml.Marshal adds around
// template references, which must reach Helm unquoted.
func unquoteTemplateRefs(in []byte) []byte {
	out := string(in)
	out = strings.ReplaceAll(out, `'{{`, `{{`)
	out = strings.ReplaceAll(out, `}}'`, `}}`)
	out = strings.ReplaceAll(out, `"{{`, `{{`)
	out = strings.ReplaceAll(out, `}}"`, `}}`)
	return []byte(out)
}
