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

package command_test

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/command"
	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/view"
)

func TestRunSchema_YAML(t *testing.T) {
	cli, buf := newTestCLI(view.ViewHuman)

	err := command.RunSchema(context.Background(), cli, command.SchemaOptions{
		File:    "testdata/widget-template.yaml",
		Schemas: "testdata/widget-crd.yaml",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "size:")
	assert.Contains(t, out, "color:")
	// The stored config overrides land in the output.
	assert.Contains(t, out, "title: Widget size")
	assert.Contains(t, out, "default: 3")
	// Unselected fields stay out.
	assert.NotContains(t, out, "image")
}

func TestRunSchema_JSONOutput(t *testing.T) {
	cli, buf := newTestCLI(view.ViewJSON)

	err := command.RunSchema(context.Background(), cli, command.SchemaOptions{
		File:    "testdata/widget-template.yaml",
		Schemas: "testdata/widget-crd.yaml",
	})
	require.NoError(t, err)

	var schema extv1.JSONSchemaProps
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))

	spec, ok := schema.Properties["spec"]
	require.True(t, ok)
	size, ok := spec.Properties["size"]
	require.True(t, ok)
	assert.Equal(t, "integer", size.Type)
	assert.Equal(t, "Widget size", size.Title)
}

func TestRunSchema_MultiResourceNeedsFlag(t *testing.T) {
	cli, _ := newTestCLI(view.ViewHuman)

	err := command.RunSchema(context.Background(), cli, command.SchemaOptions{
		File:    "testdata/multi-template.yaml",
		Schemas: "testdata/widget-crd.yaml",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pick one with --resource")
	assert.Contains(t, err.Error(), "example.io/v1/Widget")
	assert.Contains(t, err.Error(), "v1/ConfigMap")
}

func TestRunSchema_ResourceFlag(t *testing.T) {
	cli, buf := newTestCLI(view.ViewHuman)

	err := command.RunSchema(context.Background(), cli, command.SchemaOptions{
		File:        "testdata/multi-template.yaml",
		Schemas:     "testdata/widget-crd.yaml",
		ResourceKey: "example.io/v1/Widget",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "size:")
}

func TestRunSchema_UnknownResource(t *testing.T) {
	cli, _ := newTestCLI(view.ViewHuman)

	err := command.RunSchema(context.Background(), cli, command.SchemaOptions{
		File:        "testdata/multi-template.yaml",
		Schemas:     "testdata/widget-crd.yaml",
		ResourceKey: "apps/v1/Deployment",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `template has no resource "apps/v1/Deployment"`)
}
