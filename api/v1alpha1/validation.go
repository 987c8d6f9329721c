// Copyright 2025 The Config Pilot Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1alpha1

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation"
)

var (
	upperCamelCase    = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	kubernetesVersion = regexp.MustCompile(`^v\d+(?:(?:alpha|beta)\d+)?$`)

	schemaTypes = sets.New(
		"string", "number", "integer", "boolean", "array", "object",
	)
)

// Validate checks that the definition is internally consistent: the type
// metadata matches the template definition format, every resource has an
// identity, and field paths are well formed and unique per resource. It
// returns the first problem found.
func (t *TemplateDefinition) Validate() error {
	if t.Kind != "" && t.Kind != TemplateDefinitionKind {
		return fmt.Errorf("kind %q is not %q", t.Kind, TemplateDefinitionKind)
	}
	if t.APIVersion != "" && t.APIVersion != GroupVersion.String() {
		return fmt.Errorf("apiVersion %q is not %q", t.APIVersion, GroupVersion.String())
	}
	if t.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	if errs := validation.IsDNS1123Subdomain(t.Name); len(errs) > 0 {
		return fmt.Errorf("metadata.name %q is not valid: %s", t.Name, errs[0])
	}
	if len(t.Spec.Resources) == 0 {
		return fmt.Errorf("template %q has no resources", t.Name)
	}

	seen := sets.New[string]()
	for i := range t.Spec.Resources {
		res := &t.Spec.Resources[i]
		if err := validateResource(res); err != nil {
			return fmt.Errorf("resources[%d]: %w", i, err)
		}
		key := res.ResourceKey()
		if seen.Has(key) {
			return fmt.Errorf("resources[%d]: found duplicate resource key %q", i, key)
		}
		seen.Insert(key)
	}
	return nil
}

func validateResource(res *TemplateResource) error {
	if res.Key == "" && (res.APIVersion == "" || res.Kind == "") {
		return fmt.Errorf("resource must set key or both apiVersion and kind")
	}
	if res.Kind != "" && !upperCamelCase.MatchString(res.Kind) {
		return fmt.Errorf("kind %q is not a valid kind name (must be UpperCamelCase)", res.Kind)
	}
	if res.APIVersion != "" {
		if err := validateAPIVersion(res.APIVersion); err != nil {
			return err
		}
	}

	paths := sets.New[string]()
	for i := range res.Fields {
		f := &res.Fields[i]
		if err := validateField(f); err != nil {
			return fmt.Errorf("fields[%d]: %w", i, err)
		}
		if paths.Has(f.Path) {
			return fmt.Errorf("fields[%d]: found duplicate field path %q", i, f.Path)
		}
		paths.Insert(f.Path)
	}

	for path := range res.Configs {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("configs[%q]: %w", path, err)
		}
	}
	return nil
}

func validateField(f *TemplateFieldSpec) error {
	if err := validatePath(f.Path); err != nil {
		return err
	}
	if f.Type != "" && !schemaTypes.Has(f.Type) {
		return fmt.Errorf("type %q is not a valid schema type", f.Type)
	}
	return nil
}

func validateAPIVersion(apiVersion string) error {
	gv, err := schema.ParseGroupVersion(apiVersion)
	if err != nil {
		return fmt.Errorf("apiVersion %q is not valid: %w", apiVersion, err)
	}
	if !kubernetesVersion.MatchString(gv.Version) {
		return fmt.Errorf("apiVersion %q is not valid: version must look like v1, v1alpha1 or v1beta1", apiVersion)
	}
	if gv.Group != "" {
		if errs := validation.IsDNS1123Subdomain(gv.Group); len(errs) > 0 {
			return fmt.Errorf("apiVersion %q is not valid: %s", apiVersion, errs[0])
		}
	}
	return nil
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("field path must not be empty")
	}
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return fmt.Errorf("field path %q has an empty segment", path)
		}
	}
	return nil
}
