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
	"fmt"
	"strings"

	"github.com/gobuffalo/flect"
	k8sschema "k8s.io/apimachinery/pkg/runtime/schema"
)

// ResourceMeta identifies one resource entry of a template.
type ResourceMeta struct {
	Key        string `json:"key,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

// ResourceKey returns the canonical "{apiVersion}/{kind}" identity under
// which all selection and configuration state for a resource is keyed.
func ResourceKey(apiVersion, kind string) string {
	return apiVersion + "/" + kind
}

// ResourceKeyFor prefers an explicitly provided key and falls back to
// the canonical apiVersion/kind form.
func ResourceKeyFor(meta ResourceMeta) string {
	if meta.Key != "" {
		return meta.Key
	}
	return ResourceKey(meta.APIVersion, meta.Kind)
}

// SplitResourceKey breaks a resource key into its apiVersion and kind.
// The kind is everything after the last separator, so group-qualified
// apiVersions survive the round trip.
func SplitResourceKey(key string) (apiVersion, kind string, err error) {
	idx := strings.LastIndexByte(key, '/')
	if idx <= 0 || idx == len(key)-1 {
		return "", "", fmt.Errorf("malformed resource key %q, want {apiVersion}/{kind}", key)
	}
	return key[:idx], key[idx+1:], nil
}

// GroupVersionKind parses a resource key into its GVK.
func GroupVersionKind(key string) (k8sschema.GroupVersionKind, error) {
	apiVersion, kind, err := SplitResourceKey(key)
	if err != nil {
		return k8sschema.GroupVersionKind{}, err
	}
	gv, err := k8sschema.ParseGroupVersion(apiVersion)
	if err != nil {
		return k8sschema.GroupVersionKind{}, fmt.Errorf("parsing apiVersion of %q: %w", key, err)
	}
	return gv.WithKind(kind), nil
}

// GroupVersionResource parses a resource key into its GVR, pluralizing
// the kind the way the apiserver names resources.
func GroupVersionResource(key string) (k8sschema.GroupVersionResource, error) {
	gvk, err := GroupVersionKind(key)
	if err != nil {
		return k8sschema.GroupVersionResource{}, err
	}
	plural := flect.Pluralize(strings.ToLower(gvk.Kind))
	return gvk.GroupVersion().WithResource(plural), nil
}
