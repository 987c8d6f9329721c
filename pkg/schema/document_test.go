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

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		wantIs  error
		wantKey string
	}{
		{
			name:    "json document",
			data:    `{"definitions": {"Widget": {"type": "object"}}}`,
			wantKey: "definitions",
		},
		{
			name:    "yaml document",
			data:    "definitions:\n  Widget:\n    type: object\n",
			wantKey: "definitions",
		},
		{
			name:    "empty document",
			data:    "   ",
			wantErr: true,
			wantIs:  ErrEmptyDocument,
		},
		{
			name:    "malformed json",
			data:    `{"definitions": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := LoadDocument([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Contains(t, doc.Raw(), tt.wantKey)
		})
	}
}

func TestDocumentLookup(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		ref      string
		wantType string
		wantOK   bool
	}{
		{
			name: "literal definitions path",
			raw: map[string]any{
				"definitions": map[string]any{
					"io.k8s.api.apps.v1.DeploymentSpec": map[string]any{"type": "object"},
				},
			},
			ref:      "#/definitions/io.k8s.api.apps.v1.DeploymentSpec",
			wantType: "object",
			wantOK:   true,
		},
		{
			name: "crd storage shape",
			raw: map[string]any{
				"spec": map[string]any{
					"versions": []any{
						map[string]any{
							"schema": map[string]any{
								"openAPIV3Schema": map[string]any{
									"definitions": map[string]any{
										"Widget": map[string]any{"type": "string"},
									},
								},
							},
						},
					},
				},
			},
			ref:      "#/definitions/Widget",
			wantType: "string",
			wantOK:   true,
		},
		{
			name: "openapi3 components by last segment",
			raw: map[string]any{
				"components": map[string]any{
					"schemas": map[string]any{
						"Widget": map[string]any{"type": "integer"},
					},
				},
			},
			ref:      "#/definitions/Widget",
			wantType: "integer",
			wantOK:   true,
		},
		{
			name:   "missing definition",
			raw:    map[string]any{"definitions": map[string]any{}},
			ref:    "#/definitions/Widget",
			wantOK: false,
		},
		{
			name:   "not a local reference",
			raw:    map[string]any{"definitions": map[string]any{}},
			ref:    "http://example.com/schema.json",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := NewDocument(tt.raw).Lookup(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantType, def["type"])
			}
		})
	}
}

func TestDocumentLookupNil(t *testing.T) {
	var doc *Document
	_, ok := doc.Lookup("#/definitions/Widget")
	assert.False(t, ok)
	assert.Nil(t, doc.Root())
	assert.Nil(t, doc.Raw())
}

func TestDocumentRoot(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		wantProp string
	}{
		{
			name: "plain schema returned as-is",
			raw: map[string]any{
				"type":       "object",
				"properties": map[string]any{"spec": map[string]any{}},
			},
			wantProp: "spec",
		},
		{
			name: "crd served version",
			raw: map[string]any{
				"kind": "CustomResourceDefinition",
				"spec": map[string]any{
					"versions": []any{
						map[string]any{
							"name":   "v1alpha1",
							"served": false,
							"schema": map[string]any{
								"openAPIV3Schema": map[string]any{
									"properties": map[string]any{"old": map[string]any{}},
								},
							},
						},
						map[string]any{
							"name":   "v1",
							"served": true,
							"schema": map[string]any{
								"openAPIV3Schema": map[string]any{
									"properties": map[string]any{"current": map[string]any{}},
								},
							},
						},
					},
				},
			},
			wantProp: "current",
		},
		{
			name: "legacy crd validation shape",
			raw: map[string]any{
				"spec": map[string]any{
					"validation": map[string]any{
						"openAPIV3Schema": map[string]any{
							"properties": map[string]any{"legacy": map[string]any{}},
						},
					},
				},
			},
			wantProp: "legacy",
		},
		{
			name: "bare openAPIV3Schema wrapper",
			raw: map[string]any{
				"openAPIV3Schema": map[string]any{
					"properties": map[string]any{"wrapped": map[string]any{}},
				},
			},
			wantProp: "wrapped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewDocument(tt.raw).Root()
			require.NotNil(t, root)
			properties, ok := root["properties"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, properties, tt.wantProp)
		})
	}
}

func TestDocumentExplicitRoot(t *testing.T) {
	raw := map[string]any{
		"spec": map[string]any{
			"versions": []any{
				map[string]any{
					"name":   "v1",
					"served": true,
					"schema": map[string]any{
						"openAPIV3Schema": map[string]any{
							"properties": map[string]any{"served": map[string]any{}},
						},
					},
				},
				map[string]any{
					"name":   "v2beta1",
					"served": false,
					"schema": map[string]any{
						"openAPIV3Schema": map[string]any{
							"properties": map[string]any{"preview": map[string]any{}},
						},
					},
				},
			},
		},
	}
	preview, ok := walkKeys(raw, []string{"spec", "versions", "1", "schema", "openAPIV3Schema"})
	require.True(t, ok)

	doc := NewDocumentWithRoot(raw, preview)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Contains(t, root["properties"], "preview", "explicit root wins over the served version")

	// References still resolve against the whole document.
	_, ok = doc.Lookup("#/spec/versions/0/schema/openAPIV3Schema")
	assert.True(t, ok)
}

func TestPropsRoundTrip(t *testing.T) {
	fragment := map[string]any{
		"type":        "integer",
		"description": "Number of desired pods",
		"minimum":     float64(0),
		"maximum":     float64(1000),
		"default":     float64(1),
	}

	props, err := PropsFromMap(fragment)
	require.NoError(t, err)
	require.NotNil(t, props)
	assert.Equal(t, "integer", props.Type)
	assert.Equal(t, "Number of desired pods", props.Description)
	require.NotNil(t, props.Minimum)
	assert.Equal(t, float64(0), *props.Minimum)
	require.NotNil(t, props.Maximum)
	assert.Equal(t, float64(1000), *props.Maximum)
	require.NotNil(t, props.Default)

	back, err := PropsToMap(props)
	require.NoError(t, err)
	assert.Equal(t, fragment, back)

	nilProps, err := PropsFromMap(nil)
	require.NoError(t, err)
	assert.Nil(t, nilProps)
}
