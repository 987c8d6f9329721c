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

package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
	"github.com/ngvtien/config-pilot-sub003/pkg/template"
)

const deploymentKey = "apps/v1/Deployment"

func testDocument() *schema.Document {
	return schema.NewDocument(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"apiVersion": map[string]any{"type": "string"},
			"kind":       map[string]any{"type": "string"},
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
			},
			"spec": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"replicas": map[string]any{
						"type":        "integer",
						"description": "Number of desired pods",
					},
					"selector": map[string]any{"type": "object"},
				},
			},
		},
	})
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(deploymentKey, testDocument(), opts...)
	require.NoError(t, err)
	require.NotEmpty(t, s.Tree())
	return s
}

func TestSessionToggle(t *testing.T) {
	s := newTestSession(t)

	selected, err := s.Toggle("spec.replicas")
	require.NoError(t, err)
	assert.True(t, selected)
	assert.True(t, s.IsSelected("spec.replicas"))

	selected, err = s.Toggle("spec.replicas")
	require.NoError(t, err)
	assert.False(t, selected)
	assert.False(t, s.IsSelected("spec.replicas"))

	_, err = s.Toggle("spec.nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPath))
}

func TestSessionSelectRejectsUnknownAtomically(t *testing.T) {
	s := newTestSession(t)

	err := s.Select("spec.replicas", "spec.nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPath))
	assert.Empty(t, s.Selected())

	require.NoError(t, s.Select("spec.replicas", "metadata.name"))
	assert.Equal(t, []string{"metadata.name", "spec.replicas"}, s.Selected())

	s.Deselect("metadata.name", "never.selected")
	assert.Equal(t, []string{"spec.replicas"}, s.Selected())
}

func TestSessionFieldsOrdered(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Select("spec.selector", "metadata.name", "spec.replicas"))

	fields := s.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "metadata.name", fields[0].Path)
	assert.Equal(t, "spec.replicas", fields[1].Path)
	assert.Equal(t, "spec.selector", fields[2].Path)
	assert.Equal(t, "Number of desired pods", fields[1].Description)
}

func TestSessionConfigure(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Select("spec.replicas"))

	stored, kept := s.Configure("spec.replicas", template.FieldConfig{
		Title:       "Replica count",
		Description: "How many pods",
		Default:     3,
	})
	require.True(t, kept)
	assert.Equal(t, "Replica count", stored.Title)

	fields := s.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "Replica count", fields[0].Title)
	assert.Equal(t, "How many pods", fields[0].Description)
	assert.Equal(t, 3, fields[0].Default)

	preview := s.Preview()
	replicas := preview.Properties["spec"].Properties["replicas"]
	assert.Equal(t, "Replica count", replicas.Title)
	assert.Equal(t, "How many pods", replicas.Description)

	// clearing the override reverts the mirror to the schema description
	_, kept = s.Configure("spec.replicas", template.FieldConfig{})
	assert.False(t, kept)
	fields = s.Fields()
	assert.Empty(t, fields[0].Title)
	assert.Equal(t, "Number of desired pods", fields[0].Description)
	assert.Nil(t, fields[0].Default)
}

func TestSessionPreview(t *testing.T) {
	s := newTestSession(t)

	empty := s.Preview()
	require.NotNil(t, empty)
	assert.Equal(t, "object", empty.Type)
	assert.Empty(t, empty.Properties)

	require.NoError(t, s.Select("spec.replicas"))
	preview := s.Preview()
	spec, ok := preview.Properties["spec"]
	require.True(t, ok)
	assert.Contains(t, spec.Properties, "replicas")
	assert.NotContains(t, spec.Properties, "selector")

	// preview is a pure rebuild
	assert.Equal(t, preview, s.Preview())
}

func TestSessionSaveLoad(t *testing.T) {
	selections := template.NewMemorySelectionStore()
	configs := template.NewMemoryConfigStore()

	s := newTestSession(t, WithSelectionStore(selections), WithConfigStore(configs))
	require.NoError(t, s.Select("spec.replicas", "metadata.name"))
	s.Configure("spec.replicas", template.FieldConfig{Title: "Replica count"})
	s.Save()

	restored := newTestSession(t, WithSelectionStore(selections), WithConfigStore(configs))
	restored.Load()
	assert.Equal(t, []string{"metadata.name", "spec.replicas"}, restored.Selected())

	preview := restored.Preview()
	assert.Equal(t, "Replica count", preview.Properties["spec"].Properties["replicas"].Title)
}

func TestSessionLoadNormalizesStalePaths(t *testing.T) {
	selections := template.NewMemorySelectionStore()
	selections.SetFields(deploymentKey, []template.Field{
		{Path: "apps/v1/Deployment.spec.replicas", Name: "replicas", Type: "integer"},
		{Path: "spec.gone", Name: "gone"},
	})

	s := newTestSession(t, WithSelectionStore(selections))
	s.Load()

	assert.Equal(t, []string{"spec.replicas"}, s.Selected())
}

func TestSessionNilDocument(t *testing.T) {
	s, err := New("v1/ConfigMap", nil)
	require.NoError(t, err)
	assert.Empty(t, s.Tree())

	_, err = s.Toggle("data.config")
	assert.Error(t, err)

	preview := s.Preview()
	assert.Equal(t, "object", preview.Type)
	assert.Empty(t, preview.Properties)
}

func TestSessionWithPrebuiltTree(t *testing.T) {
	nodes := []*schema.TreeNode{
		{Name: "data", Path: "data", Type: "object", Children: []*schema.TreeNode{
			{Name: "config", Path: "data.config", Type: "string"},
		}},
	}

	s, err := New("v1/ConfigMap", nil, WithTree(nodes))
	require.NoError(t, err)
	require.NoError(t, s.Select("data.config"))

	preview := s.Preview()
	data, ok := preview.Properties["data"]
	require.True(t, ok)
	assert.Contains(t, data.Properties, "config")
}
