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
	"strings"

	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"
)

// kubernetesDefinitionPrefix marks references into the upstream
// Kubernetes API definitions. Those may legitimately be absent from a
// partially-indexed document and degrade to an open placeholder instead
// of an unresolved one.
const kubernetesDefinitionPrefix = "#/definitions/io.k8s."

// Resolve dereferences prop against doc. The returned flag reports
// whether a reference was followed (or substituted) anywhere along the
// direct chain.
//
// Resolution never fails: a reference already on the visited set becomes
// a terminal "Circular reference" object, an unknown Kubernetes
// definition becomes an open placeholder that keeps the original $ref
// for later lookup, and anything else unresolved becomes a descriptive
// "Unresolved reference" object. Object properties and array items are
// resolved recursively; every child starts from its own copy of the
// visited set so a cycle in one branch does not poison its siblings.
func Resolve(prop *extv1.JSONSchemaProps, doc *Document, visited sets.Set[string]) (*extv1.JSONSchemaProps, bool) {
	if prop == nil {
		return nil, false
	}
	if visited == nil {
		visited = sets.New[string]()
	}

	if prop.Ref != nil && *prop.Ref != "" {
		return resolveRef(*prop.Ref, doc, visited)
	}

	if (prop.Type == "object" || prop.Type == "") && len(prop.Properties) > 0 {
		out := *prop
		out.Properties = make(map[string]extv1.JSONSchemaProps, len(prop.Properties))
		for name, child := range prop.Properties {
			resolved, _ := Resolve(&child, doc, visited.Clone())
			if resolved != nil {
				out.Properties[name] = *resolved
			}
		}
		return &out, false
	}

	if prop.Type == "array" && prop.Items != nil && prop.Items.Schema != nil {
		resolved, isRef := Resolve(prop.Items.Schema, doc, visited.Clone())
		out := *prop
		out.Items = &extv1.JSONSchemaPropsOrArray{Schema: resolved}
		return &out, isRef
	}

	return prop, false
}

func resolveRef(ref string, doc *Document, visited sets.Set[string]) (*extv1.JSONSchemaProps, bool) {
	if visited.Has(ref) {
		return &extv1.JSONSchemaProps{
			Type:        "object",
			Description: "Circular reference: " + ref,
		}, true
	}
	visited = visited.Clone()
	visited.Insert(ref)

	if fragment, ok := doc.Lookup(ref); ok {
		definition, err := PropsFromMap(fragment)
		if err == nil && definition != nil {
			resolved, _ := Resolve(definition, doc, visited)
			return resolved, true
		}
	}

	if strings.HasPrefix(ref, kubernetesDefinitionPrefix) {
		return &extv1.JSONSchemaProps{
			Type:                 "object",
			Description:          "Kubernetes definition: " + ref,
			Ref:                  ptr.To(ref),
			AdditionalProperties: &extv1.JSONSchemaPropsOrBool{Allows: true},
		}, true
	}

	return &extv1.JSONSchemaProps{
		Type:        "object",
		Description: "Unresolved reference: " + ref,
	}, true
}
