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
	"github.com/gobuffalo/flect"
	"k8s.io/apimachinery/pkg/util/sets"
	"sigs.k8s.io/yaml"
)

// Manifests renders one plain manifest per resource, keyed by file
// name. Resources of the same kind get numeric file name suffixes.
func Manifests(resources []RenderedResource) (map[string][]byte, error) {
	files, _, err := manifestFiles(resources)
	return files, err
}

// Kustomization renders a kustomize base for the template's resources:
// one manifest per resource plus the kustomization.yaml that ties them
// together, keyed by file name. Resources keep their template order.
func Kustomization(resources []RenderedResource) (map[string][]byte, error) {
	files, names, err := manifestFiles(resources)
	if err != nil {
		return nil, err
	}

	kustomization, err := yaml.Marshal(map[string]any{
		"apiVersion": "kustomize.config.k8s.io/v1beta1",
		"kind":       "Kustomization",
		"resources":  names,
	})
	if err != nil {
		return nil, err
	}
	files["kustomization.yaml"] = kustomization
	return files, nil
}

// manifestFiles renders the per-resource manifests and reports the file
// names in template order.
func manifestFiles(resources []RenderedResource) (map[string][]byte, []string, error) {
	files := make(map[string][]byte, len(resources)+1)
	names := make([]string, 0, len(resources))
	used := sets.New[string]()

	for _, rendered := range resources {
		_, kind, err := resourceIdentity(rendered.Resource)
		if err != nil {
			return nil, nil, resourceError(rendered.Resource, err)
		}
		manifest, err := ManifestYAML(rendered.Resource)
		if err != nil {
			return nil, nil, err
		}
		name := uniqueName(flect.Dasherize(kind), "-", used) + ".yaml"
		files[name] = manifest
		names = append(names, name)
	}

	return files, names, nil
}
