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
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

// schemaURL names the in-memory schema resource in validation errors.
const schemaURL = "values.schema.json"

// ValidateValues checks a values document against a generated values
// schema. Both arguments accept JSON or YAML.
func ValidateValues(schemaData, valuesData []byte) error {
	schemaJSON, err := yaml.YAMLToJSON(schemaData)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	valuesJSON, err := yaml.YAMLToJSON(valuesData)
	if err != nil {
		return fmt.Errorf("reading values: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	var values any
	if err := json.Unmarshal(valuesJSON, &values); err != nil {
		return fmt.Errorf("decoding values: %w", err)
	}
	if err := compiled.Validate(values); err != nil {
		return fmt.Errorf("values do not conform to schema: %w", err)
	}
	return nil
}
