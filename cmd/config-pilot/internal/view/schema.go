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

package view

import (
	"bytes"

	json "github.com/goccy/go-json"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"sigs.k8s.io/yaml"
)

type SchemaView interface {
	Render(result SchemaResult)
}

// SchemaResult carries one resource's filtered schema. The views emit
// the bare document (YAML for human, indented JSON otherwise) so the
// output can be redirected to a file as-is.
type SchemaResult struct {
	ResourceKey string
	Schema      *extv1.JSONSchemaProps
}

// Human view implementation.

type schemaHumanView struct {
	*HumanView
}

func newSchemaHumanView(hv *HumanView) *schemaHumanView {
	return &schemaHumanView{HumanView: hv}
}

func (v *schemaHumanView) Render(result SchemaResult) {
	if data, err := yaml.Marshal(result.Schema); err == nil {
		v.Printf("%s", data)
	}
}

// JSON view implementation.

type schemaJSONView struct {
	*JSONView
}

func newSchemaJSONView(jv *JSONView) *schemaJSONView {
	return &schemaJSONView{JSONView: jv}
}

func (v *schemaJSONView) Render(result SchemaResult) {
	// json.MarshalIndent loops forever on JSONSchemaProps (goccy/go-json
	// cannot indent types that recurse through map values), so marshal
	// compact and indent the bytes instead; the output is identical.
	data, err := json.Marshal(result.Schema)
	if err != nil {
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err == nil {
		v.Println(buf.String())
	}
}

func NewSchemaView(v Viewer) SchemaView {
	switch vt := v.(type) {
	case *HumanView:
		return newSchemaHumanView(vt)
	case *JSONView:
		return newSchemaJSONView(vt)
	default:
		panic("unknown view type")
	}
}
