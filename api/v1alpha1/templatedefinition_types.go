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
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	// Group is the API group of serialized template definitions.
	Group = "config-pilot.io"
	// Version is the current version of the template definition format.
	Version = "v1alpha1"
	// TemplateDefinitionKind is the kind carried by template definition files.
	TemplateDefinitionKind = "TemplateDefinition"
)

// GroupVersion is the group/version of the template definition format,
// i.e. the expected apiVersion of template files on disk.
var GroupVersion = schema.GroupVersion{Group: Group, Version: Version}

// TemplateDefinition is the serialized form of a field-selection template.
// It records which fields of which resources a template exposes, along with
// per-field presentation overrides, so that a selection made in one session
// can be reloaded and re-applied against the same (or an updated) schema
// source later.
type TemplateDefinition struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec TemplateDefinitionSpec `json:"spec,omitempty"`
}

// TemplateDefinitionSpec defines the resources and field selections that
// make up a template.
type TemplateDefinitionSpec struct {
	// Description is an optional human readable summary of what the
	// template is for.
	Description string `json:"description,omitempty"`

	// Resources lists the Kubernetes resources the template draws fields
	// from. Order is preserved and significant for generated output.
	Resources []TemplateResource `json:"resources,omitempty"`
}

// TemplateResource captures the field selection for a single Kubernetes
// resource type.
type TemplateResource struct {
	// Key identifies the resource within the template. When empty it
	// defaults to "<apiVersion>/<kind>".
	Key string `json:"key,omitempty"`

	// APIVersion is the apiVersion of the target resource, e.g. "apps/v1".
	APIVersion string `json:"apiVersion,omitempty"`

	// Kind is the kind of the target resource, e.g. "Deployment".
	Kind string `json:"kind,omitempty"`

	// Fields lists the selected fields in the order they were selected.
	Fields []TemplateFieldSpec `json:"fields,omitempty"`

	// Configs carries per-path presentation overrides, keyed by field
	// path. Entries may exist for paths that are not currently selected.
	Configs map[string]FieldConfigSpec `json:"configs,omitempty"`
}

// TemplateFieldSpec is a single selected field of a resource.
type TemplateFieldSpec struct {
	// Path is the dot separated path of the field within the resource,
	// e.g. "spec.replicas".
	Path string `json:"path"`

	// Name is the last path segment. Optional; derived from Path when
	// empty.
	Name string `json:"name,omitempty"`

	// Title is a display title for the field.
	Title string `json:"title,omitempty"`

	// Type is the JSON schema type of the field, e.g. "integer".
	Type string `json:"type,omitempty"`

	// Required reports whether the parent schema listed the field as
	// required.
	Required bool `json:"required,omitempty"`

	// Description is the field documentation from the source schema.
	Description string `json:"description,omitempty"`

	// Format is the JSON schema format, e.g. "int32".
	Format string `json:"format,omitempty"`

	// Default is the default value applied to the field, if any.
	Default *extv1.JSON `json:"default,omitempty"`

	// Constraints carries validation constraints lifted from the source
	// schema.
	Constraints *FieldConstraints `json:"constraints,omitempty"`

	// Items is the item schema for array fields.
	Items *extv1.JSONSchemaProps `json:"items,omitempty"`
}

// FieldConstraints mirrors the subset of JSON schema validation keywords the
// template format preserves for a selected field.
type FieldConstraints struct {
	Enum      []string `json:"enum,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinLength *int64   `json:"minLength,omitempty"`
	MaxLength *int64   `json:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
}

// FieldConfigSpec is a per-field presentation override. All members are
// optional; an entry with no members set carries no information and is
// dropped on write.
type FieldConfigSpec struct {
	// Default overrides the schema default for the field.
	Default *extv1.JSON `json:"default,omitempty"`

	// Title overrides the display title.
	Title string `json:"title,omitempty"`

	// Description overrides the field documentation.
	Description string `json:"description,omitempty"`

	// Format overrides the JSON schema format.
	Format string `json:"format,omitempty"`
}

// ResourceKey returns the identity of the resource within the template: the
// explicit Key when set, otherwise "<apiVersion>/<kind>".
func (r *TemplateResource) ResourceKey() string {
	if r.Key != "" {
		return r.Key
	}
	return r.APIVersion + "/" + r.Kind
}

// GroupVersionKind returns the schema.GroupVersionKind of the target
// resource.
func (r *TemplateResource) GroupVersionKind() schema.GroupVersionKind {
	gv, err := schema.ParseGroupVersion(r.APIVersion)
	if err != nil {
		return schema.GroupVersionKind{Kind: r.Kind}
	}
	return gv.WithKind(r.Kind)
}
