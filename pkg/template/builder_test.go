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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
)

func loadDeploymentFixture(t *testing.T) (*schema.Document, *extv1.JSONSchemaProps, []*schema.TreeNode) {
	t.Helper()
	data, err := os.ReadFile("testdata/deployment.json")
	require.NoError(t, err)
	doc, err := schema.LoadDocument(data)
	require.NoError(t, err)
	root, err := schema.PropsFromMap(doc.Root())
	require.NoError(t, err)
	nodes := schema.BuildTree(root, doc)
	require.NotEmpty(t, nodes)
	return doc, root, nodes
}

func specTree() []*schema.TreeNode {
	replicas := &schema.TreeNode{Name: "replicas", Path: "spec.replicas", Type: "integer", Description: "Number of desired pods"}
	selector := &schema.TreeNode{Name: "selector", Path: "spec.selector", Type: "object"}
	return []*schema.TreeNode{
		{Name: "spec", Path: "spec", Type: "object", Children: []*schema.TreeNode{replicas, selector}},
	}
}

func TestBuildSchemaSelectionFidelity(t *testing.T) {
	out := BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Nodes:       specTree(),
		Fields:      []Field{{Path: "spec.replicas", Name: "replicas", Type: "integer"}},
	})

	require.NotNil(t, out)
	assert.Equal(t, "object", out.Type)

	spec, ok := out.Properties["spec"]
	require.True(t, ok)
	assert.Equal(t, "object", spec.Type)
	assert.Contains(t, spec.Properties, "replicas")
	assert.NotContains(t, spec.Properties, "selector")
	assert.Equal(t, "integer", spec.Properties["replicas"].Type)
}

func TestBuildSchemaAncestorInclusion(t *testing.T) {
	containers := &schema.TreeNode{Name: "containers", Path: "spec.template.spec.containers", Type: "array"}
	podSpec := &schema.TreeNode{Name: "spec", Path: "spec.template.spec", Type: "object", Children: []*schema.TreeNode{containers}}
	podTemplate := &schema.TreeNode{Name: "template", Path: "spec.template", Type: "object", Children: []*schema.TreeNode{podSpec}}
	nodes := []*schema.TreeNode{
		{Name: "spec", Path: "spec", Type: "object", Children: []*schema.TreeNode{podTemplate}},
	}

	out := BuildSchema(BuildInput{
		Nodes:  nodes,
		Fields: []Field{{Path: "spec.template.spec.containers", Name: "containers", Type: "array"}},
	})

	spec := out.Properties["spec"]
	require.Equal(t, "object", spec.Type)
	template, ok := spec.Properties["template"]
	require.True(t, ok)
	assert.Equal(t, "object", template.Type)
	inner, ok := template.Properties["spec"]
	require.True(t, ok)
	assert.Equal(t, "object", inner.Type)
	leaf, ok := inner.Properties["containers"]
	require.True(t, ok)
	assert.Equal(t, "array", leaf.Type)
}

func TestBuildSchemaConfigPrecedence(t *testing.T) {
	out := BuildSchema(BuildInput{
		Nodes:  specTree(),
		Fields: []Field{{Path: "spec.replicas", Name: "replicas", Type: "integer"}},
		Configs: map[string]FieldConfig{
			"spec.replicas": {
				Title:       "Replica count",
				Description: "How many pods to run",
				Default:     3,
			},
		},
	})

	replicas := out.Properties["spec"].Properties["replicas"]
	assert.Equal(t, "Replica count", replicas.Title)
	assert.Equal(t, "How many pods to run", replicas.Description)
	require.NotNil(t, replicas.Default)
	assert.JSONEq(t, `3`, string(replicas.Default.Raw))
}

func TestBuildSchemaIgnoresEmptyConfig(t *testing.T) {
	out := BuildSchema(BuildInput{
		Nodes:  specTree(),
		Fields: []Field{{Path: "spec.replicas", Name: "replicas", Type: "integer"}},
		Configs: map[string]FieldConfig{
			"spec.replicas": {Title: "   ", Description: "\t"},
		},
	})

	replicas := out.Properties["spec"].Properties["replicas"]
	assert.Empty(t, replicas.Title)
	assert.Equal(t, "Number of desired pods", replicas.Description)
}

func TestBuildSchemaEmptySelection(t *testing.T) {
	out := BuildSchema(BuildInput{
		Nodes:   specTree(),
		Configs: map[string]FieldConfig{"spec.replicas": {Title: "unused"}},
	})

	require.NotNil(t, out)
	assert.Equal(t, "object", out.Type)
	assert.Empty(t, out.Properties)
}

func TestBuildSchemaNilOriginal(t *testing.T) {
	out := BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Nodes:       specTree(),
		Fields:      []Field{{Path: "spec.replicas", Name: "replicas"}},
	})

	replicas := out.Properties["spec"].Properties["replicas"]
	assert.Equal(t, "integer", replicas.Type)
	assert.Equal(t, "Number of desired pods", replicas.Description)
}

func TestBuildSchemaStrictTopLevelInclusion(t *testing.T) {
	doc, root, nodes := loadDeploymentFixture(t)
	index := schema.NodeIndex(nodes)

	out := BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Original:    root,
		Document:    doc,
		Nodes:       nodes,
		Fields:      []Field{FieldFromNode(index["spec.replicas"])},
	})
	assert.NotContains(t, out.Properties, "apiVersion")
	assert.NotContains(t, out.Properties, "kind")
	assert.NotContains(t, out.Properties, "metadata")

	out = BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Original:    root,
		Document:    doc,
		Nodes:       nodes,
		Fields: []Field{
			FieldFromNode(index["apiVersion"]),
			FieldFromNode(index["kind"]),
		},
	})
	require.Contains(t, out.Properties, "apiVersion")
	require.Contains(t, out.Properties, "kind")
	assert.Equal(t, "string", out.Properties["apiVersion"].Type)
	assert.Contains(t, out.Properties["apiVersion"].Description, "APIVersion")
}

func TestBuildSchemaMetadataBareSelection(t *testing.T) {
	doc, root, nodes := loadDeploymentFixture(t)
	index := schema.NodeIndex(nodes)

	out := BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Original:    root,
		Document:    doc,
		Nodes:       nodes,
		Fields:      []Field{FieldFromNode(index["metadata"])},
		Configs: map[string]FieldConfig{
			"metadata": {Description: "Standard object metadata"},
		},
	})

	metadata, ok := out.Properties["metadata"]
	require.True(t, ok)
	assert.Equal(t, "object", metadata.Type)
	assert.Equal(t, "Standard object metadata", metadata.Description)
	// bare selection keeps the original shape
	assert.Contains(t, metadata.Properties, "name")
	assert.Contains(t, metadata.Properties, "namespace")
	assert.Contains(t, metadata.Properties, "labels")
}

func TestBuildSchemaNormalizesRecordedPaths(t *testing.T) {
	_, _, nodes := loadDeploymentFixture(t)

	out := BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Nodes:       nodes,
		Fields: []Field{
			{Path: "apps/v1/Deployment.spec.replicas", Name: "replicas", Type: "integer"},
		},
		Configs: map[string]FieldConfig{
			"apps/v1/Deployment.spec.replicas": {Title: "Replica count"},
		},
	})

	spec, ok := out.Properties["spec"]
	require.True(t, ok)
	replicas, ok := spec.Properties["replicas"]
	require.True(t, ok)
	assert.Equal(t, "Replica count", replicas.Title)
}

func TestBuildSchemaArrayItemsFromField(t *testing.T) {
	doc, root, nodes := loadDeploymentFixture(t)
	index := schema.NodeIndex(nodes)

	field := FieldFromNode(index["spec.template.spec.containers"])
	require.Equal(t, "array", field.Type)

	out := BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Original:    root,
		Document:    doc,
		Nodes:       nodes,
		Fields:      []Field{field},
	})

	containers := out.Properties["spec"].Properties["template"].Properties["spec"].Properties["containers"]
	assert.Equal(t, "array", containers.Type)
	require.NotNil(t, containers.Items)
	require.NotNil(t, containers.Items.Schema)
	assert.Contains(t, containers.Items.Schema.Properties, "image")
}

func TestBuildSchemaRequiredChildren(t *testing.T) {
	doc, root, nodes := loadDeploymentFixture(t)
	index := schema.NodeIndex(nodes)

	out := BuildSchema(BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Original:    root,
		Document:    doc,
		Nodes:       nodes,
		Fields: []Field{
			FieldFromNode(index["spec.replicas"]),
			FieldFromNode(index["spec.selector"]),
		},
	})

	spec := out.Properties["spec"]
	assert.Equal(t, []string{"selector"}, spec.Required)
	assert.Contains(t, spec.Properties, "selector")
	assert.Contains(t, spec.Properties, "replicas")
	assert.NotContains(t, spec.Properties, "template")
}

func TestBuildSchemaDeploymentEndToEnd(t *testing.T) {
	doc, root, nodes := loadDeploymentFixture(t)
	index := schema.NodeIndex(nodes)
	require.Contains(t, index, "spec.replicas")
	require.Contains(t, index, "metadata.name")

	input := BuildInput{
		ResourceKey: "apps/v1/Deployment",
		Original:    root,
		Document:    doc,
		Nodes:       nodes,
		Fields: []Field{
			FieldFromNode(index["metadata.name"]),
			FieldFromNode(index["spec.replicas"]),
		},
	}

	out := BuildSchema(input)

	metadata, ok := out.Properties["metadata"]
	require.True(t, ok)
	require.Contains(t, metadata.Properties, "name")
	assert.Equal(t, "string", metadata.Properties["name"].Type)
	assert.Len(t, metadata.Properties, 1)

	spec, ok := out.Properties["spec"]
	require.True(t, ok)
	replicas, ok := spec.Properties["replicas"]
	require.True(t, ok)
	assert.Equal(t, "integer", replicas.Type)
	require.NotNil(t, replicas.Minimum)
	assert.Equal(t, float64(0), *replicas.Minimum)
	require.NotNil(t, replicas.Maximum)
	assert.Equal(t, float64(1000), *replicas.Maximum)
	require.NotNil(t, replicas.Default)
	assert.JSONEq(t, `1`, string(replicas.Default.Raw))
	assert.Equal(t, "Number of desired pods", replicas.Description)
	assert.Empty(t, replicas.Title)

	_, hasSelector := spec.Properties["selector"]
	assert.False(t, hasSelector)
	assert.NotContains(t, out.Properties, "apiVersion")
	assert.NotContains(t, out.Properties, "kind")

	// a rebuild from identical inputs is deeply equal
	assert.Equal(t, out, BuildSchema(input))
}
