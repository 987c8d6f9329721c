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

package view_test

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/view"
)

func fieldsFixture() view.FieldsResult {
	return view.FieldsResult{
		Resources: []view.ResourceFields{
			{
				Key: "apps/v1/Deployment",
				Fields: []view.FieldRow{
					{Path: "spec.replicas", Type: "integer", Required: false, Description: "Number of desired pods."},
					{Path: "spec.template", Type: "object", Required: true, Description: "Template describes the pods that will be created.\nOnly honored on create."},
				},
			},
			{
				Key:    "v1/ConfigMap",
				Fields: nil,
			},
		},
	}
}

func TestFieldsHumanView(t *testing.T) {
	buf := &bytes.Buffer{}
	fv := view.NewFieldsView(view.NewHumanView(view.NewStream(buf), view.LogLevelSilent))

	fv.Render(fieldsFixture())

	out := buf.String()
	assert.Contains(t, out, "apps/v1/Deployment")
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "spec.replicas")
	assert.Contains(t, out, "integer")
	assert.Contains(t, out, "Number of desired pods.")
	// Multi-line descriptions collapse to their first line.
	assert.NotContains(t, out, "Only honored on create.")
	// Resources without matches say so instead of rendering an empty table.
	assert.Contains(t, out, "v1/ConfigMap")
	assert.Contains(t, out, "no matching fields")
}

func TestFieldsJSONView(t *testing.T) {
	buf := &bytes.Buffer{}
	fv := view.NewFieldsView(view.NewJSONView(view.NewStream(buf), view.LogLevelSilent))

	fv.Render(fieldsFixture())

	var out struct {
		Type      string                `json:"type"`
		Resources []view.ResourceFields `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "fields", out.Type)
	require.Len(t, out.Resources, 2)
	assert.Equal(t, "apps/v1/Deployment", out.Resources[0].Key)
	require.Len(t, out.Resources[0].Fields, 2)
	// JSON output keeps descriptions untouched.
	assert.Equal(t, "Template describes the pods that will be created.\nOnly honored on create.", out.Resources[0].Fields[1].Description)
}

func TestValidateHumanView(t *testing.T) {
	buf := &bytes.Buffer{}
	vv := view.NewValidateView(view.NewHumanView(view.NewStream(buf), view.LogLevelSilent))

	vv.Render(view.ValidateResult{FileCount: 2})
	assert.Contains(t, buf.String(), "Valid!")

	buf.Reset()
	vv.Render(view.ValidateResult{
		FileCount: 2,
		Errors: []view.ValidateFileError{
			{File: "a.yaml", Message: "metadata.name is required"},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Error!")
	assert.Contains(t, out, "a.yaml")
	assert.Contains(t, out, "metadata.name is required")
	assert.True(t, strings.Count(out, "\n") == 1, "one line per error")
}

func TestValidateJSONView(t *testing.T) {
	buf := &bytes.Buffer{}
	vv := view.NewValidateView(view.NewJSONView(view.NewStream(buf), view.LogLevelSilent))

	vv.Render(view.ValidateResult{
		FileCount: 3,
		Errors: []view.ValidateFileError{
			{File: "a.yaml", Message: "boom"},
		},
	})

	var out struct {
		Type   string                   `json:"type"`
		Status string                   `json:"status"`
		Files  int                      `json:"files"`
		Errors []view.ValidateFileError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "validate", out.Type)
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, 3, out.Files)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "a.yaml", out.Errors[0].File)
}
