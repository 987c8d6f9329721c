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

// Package source discovers resource schemas and hands them out by
// resource key. The file provider understands CustomResourceDefinition
// manifests, OpenAPI v2 (swagger) documents and plain schema files.
package source

import (
	"errors"

	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
)

// ErrResourceNotFound is returned by Schema for keys the provider never
// discovered.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceInfo identifies one discovered resource schema.
type ResourceInfo struct {
	// Group is the API group, empty for the core group.
	Group string `json:"group,omitempty"`
	// Version is the API version, e.g. "v1".
	Version string `json:"version,omitempty"`
	// Kind is the resource kind, e.g. "Deployment".
	Kind string `json:"kind,omitempty"`
	// Key is the resource key schemas are served under, normally
	// "<apiVersion>/<kind>".
	Key string `json:"key"`
}

// Provider serves schema documents by resource key.
type Provider interface {
	// Resources lists every discovered resource in a stable order.
	Resources() []ResourceInfo
	// Schema returns the schema document for a resource key. Unknown
	// keys return an error wrapping ErrResourceNotFound.
	Schema(key string) (*schema.Document, error)
}
