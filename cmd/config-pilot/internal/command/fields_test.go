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

	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/command"
	"github.com/ngvtien/config-pilot-sub003/cmd/config-pilot/internal/view"
	"github.com/ngvtien/config-pilot-sub003/pkg/source"
)

func TestRunFields_Table(t *testing.T) {
	cli, buf := newTestCLI(view.ViewHuman)

	err := command.RunFields(context.Background(), cli, command.FieldsOptions{
		Path: "testdata/widget-crd.yaml",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "example.io/v1/Widget")
	assert.Contains(t, out, "spec.size")
	assert.Contains(t, out, "integer")
	assert.Contains(t, out, "Number of widget replicas.")
}

func TestRunFields_Search(t *testing.T) {
	cli, buf := newTestCLI(view.ViewHuman)

	err := command.RunFields(context.Background(), cli, command.FieldsOptions{
		Path:   "testdata/widget-crd.yaml",
		Search: "color",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "spec.color")
	assert.NotContains(t, out, "spec.size")
}

func TestRunFields_TypeFilter(t *testing.T) {
	cli, buf := newTestCLI(view.ViewHuman)

	err := command.RunFields(context.Background(), cli, command.FieldsOptions{
		Path: "testdata/widget-crd.yaml",
		Type: "object",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "spec.image")
	assert.NotContains(t, out, "spec.size")
}

func TestRunFields_NoMatches(t *testing.T) {
	cli, buf := newTestCLI(view.ViewHuman)

	err := command.RunFields(context.Background(), cli, command.FieldsOptions{
		Path:   "testdata/widget-crd.yaml",
		Search: "zzzzzz",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "no matching fields")
}

func TestRunFields_UnknownResource(t *testing.T) {
	cli, _ := newTestCLI(view.ViewHuman)

	err := command.RunFields(context.Background(), cli, command.FieldsOptions{
		Path:        "testdata/widget-crd.yaml",
		ResourceKey: "apps/v1/Deployment",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrResourceNotFound)
}

func TestRunFields_JSONOutput(t *testing.T) {
	cli, buf := newTestCLI(view.ViewJSON)

	err := command.RunFields(context.Background(), cli, command.FieldsOptions{
		Path: "testdata/widget-crd.yaml",
	})
	require.NoError(t, err)

	var out struct {
		Type      string                `json:"type"`
		Resources []view.ResourceFields `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "fields", out.Type)
	require.Len(t, out.Resources, 1)
	assert.Equal(t, "example.io/v1/Widget", out.Resources[0].Key)

	paths := map[string]view.FieldRow{}
	for _, row := range out.Resources[0].Fields {
		paths[row.Path] = row
	}
	require.Contains(t, paths, "spec.size")
	assert.Equal(t, "integer", paths["spec.size"].Type)
	assert.True(t, paths["spec.size"].Required)
	require.Contains(t, paths, "spec.image.repository")
	assert.Equal(t, "string", paths["spec.image.repository"].Type)
}
