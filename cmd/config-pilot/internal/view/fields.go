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
	"strings"
	"time"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/rodaine/table"
)

type FieldsView interface {
	Render(result FieldsResult)
}

// FieldsResult lists the selectable field paths of one or more
// resources.
type FieldsResult struct {
	Resources []ResourceFields
}

type ResourceFields struct {
	Key    string     `json:"key"`
	Fields []FieldRow `json:"fields"`
}

type FieldRow struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// Human view implementation.

type fieldsHumanView struct {
	*HumanView
}

func newFieldsHumanView(hv *HumanView) *fieldsHumanView {
	return &fieldsHumanView{HumanView: hv}
}

func (v *fieldsHumanView) Render(result FieldsResult) {
	headerFmt := color.New(color.FgGreen, color.Bold).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	for i, res := range result.Resources {
		if i > 0 {
			v.Println()
		}
		v.Println(color.RGB(50, 108, 229).Sprintf("%s", res.Key))
		if len(res.Fields) == 0 {
			v.Println("no matching fields")
			continue
		}

		tbl := table.New("PATH", "TYPE", "REQUIRED", "DESCRIPTION")
		tbl.WithWriter(v.Writer).WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
		for _, f := range res.Fields {
			required := ""
			if f.Required {
				required = "yes"
			}
			tbl.AddRow(f.Path, f.Type, required, compactDescription(f.Description))
		}
		tbl.Print()
	}
}

// compactDescription reduces a schema description to something that fits
// a table cell: first line only, capped at 72 characters.
func compactDescription(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 72 {
		s = strings.TrimRight(s[:69], " ") + "..."
	}
	return s
}

// JSON view implementation.

type fieldsJSONView struct {
	*JSONView
}

func newFieldsJSONView(jv *JSONView) *fieldsJSONView {
	return &fieldsJSONView{JSONView: jv}
}

type fieldsJSONResult struct {
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Resources []ResourceFields `json:"resources"`
}

func (v *fieldsJSONView) Render(result FieldsResult) {
	out := fieldsJSONResult{
		Type:      "fields",
		Timestamp: time.Now(),
		Resources: result.Resources,
	}

	if data, err := json.Marshal(out); err == nil {
		v.Println(string(data))
	}
}

func NewFieldsView(v Viewer) FieldsView {
	switch vt := v.(type) {
	case *HumanView:
		return newFieldsHumanView(vt)
	case *JSONView:
		return newFieldsJSONView(vt)
	default:
		panic("unknown view type")
	}
}
