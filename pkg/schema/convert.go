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
	"fmt"

	"github.com/goccy/go-json"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

// PropsFromMap converts a decoded schema fragment into its typed form.
func PropsFromMap(fragment map[string]any) (*extv1.JSONSchemaProps, error) {
	if fragment == nil {
		return nil, nil
	}
	data, err := json.Marshal(fragment)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema fragment: %w", err)
	}
	props := &extv1.JSONSchemaProps{}
	if err := json.Unmarshal(data, props); err != nil {
		return nil, fmt.Errorf("converting schema fragment: %w", err)
	}
	return props, nil
}

// PropsToMap converts a typed schema fragment back into its map form.
func PropsToMap(props *extv1.JSONSchemaProps) (map[string]any, error) {
	if props == nil {
		return nil, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("converting schema: %w", err)
	}
	return out, nil
}
