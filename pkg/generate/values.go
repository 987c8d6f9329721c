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
	"bytes"

	"github.com/goccy/go-json"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
	"github.com/ngvtien/config-pilot-sub003/pkg/fieldpath"
)

// ValuesSchema renders a filtered schema as a standalone JSON Schema
// document, the values.schema.json artifact. A nil schema renders as an
// empty object schema.
func ValuesSchema(filtered *extv1.JSONSchemaProps) ([]byte, error) {
	if filtered == nil {
		filtered = &extv1.JSONSchemaProps{Type: "object"}
	}
	// json.MarshalIndent loops forever on JSONSchemaProps (goccy/go-json
	// cannot indent types that recurse through map values), so marshal
	// compact and indent the bytes instead; the output is identical.
	out, err := json.Marshal(filtered)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return nil, err
	}
	return append(buf.Bytes(), '\n'), nil
}

// valuesTree builds the nested values for one resource. Every leaf
// field appears: with its effective default when recorded, with a typed
// zero placeholder otherwise.
func valuesTree(res v1alpha1.TemplateResource) map[string]any {
	tree := map[string]any{}
	for _, field := range leafFields(res.Fields) {
		value := effectiveDefault(res, field)
		if value == nil {
			value = zeroValue(field.Type)
		}
		_ = unstructured.SetNestedField(tree, value, fieldpath.Segments(field.Path)...)
	}
	return tree
}
