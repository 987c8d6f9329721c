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

package command

import (
	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
	"github.com/ngvtien/config-pilot-sub003/pkg/generate"
	"github.com/ngvtien/config-pilot-sub003/pkg/session"
	"github.com/ngvtien/config-pilot-sub003/pkg/source"
	"github.com/ngvtien/config-pilot-sub003/pkg/template"
)

// resourceSession restores the editing session a template resource
// describes: the persisted field selection and overrides, bound to the
// resource's source schema. Paths the schema no longer carries are
// dropped on load; validate is the command that reports them.
func resourceSession(provider source.Provider, res v1alpha1.TemplateResource) (*session.Session, error) {
	doc, err := provider.Schema(res.ResourceKey())
	if err != nil {
		return nil, err
	}

	selections := template.NewMemorySelectionStore()
	selections.SetFields(res.ResourceKey(), template.FieldsFromSpec(res.Fields))
	configs := template.NewMemoryConfigStore()
	for path, cfg := range template.ConfigsFromSpec(res.Configs) {
		configs.Set(res.ResourceKey(), path, cfg)
	}

	sess, err := session.New(res.ResourceKey(), doc,
		session.WithSelectionStore(selections),
		session.WithConfigStore(configs),
	)
	if err != nil {
		return nil, err
	}
	sess.Load()
	return sess, nil
}

// renderResources pairs every template resource with the filtered schema
// its restored session previews, ready for artifact generation.
func renderResources(provider source.Provider, td *v1alpha1.TemplateDefinition) ([]generate.RenderedResource, error) {
	rendered := make([]generate.RenderedResource, 0, len(td.Spec.Resources))
	for _, res := range td.Spec.Resources {
		sess, err := resourceSession(provider, res)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, generate.RenderedResource{Resource: res, Schema: sess.Preview()})
	}
	return rendered, nil
}
