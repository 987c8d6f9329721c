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

// Package loader reads TemplateDefinition documents from files and
// directories for the config-pilot CLI.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
)

type TemplateDefinitionLoadResult struct {
	Path string
	Def  *v1alpha1.TemplateDefinition
	Err  error
}

// collectYAMLFiles returns a list of YAML file paths from the given path.
// If path is a file, it returns a single-element slice.
// If path is a directory, it returns all .yaml and .yml files in the directory (non-recursive).
func collectYAMLFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("file %q must have a .yaml or .yml extension", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// LoadTemplateDefinitionsDetailed loads TemplateDefinition resources from a file or directory,
// returning per-file results (including parse errors) so callers can continue on failure.
// Only errors related to accessing the path (stat/readdir) are returned directly.
func LoadTemplateDefinitionsDetailed(path string) ([]TemplateDefinitionLoadResult, error) {
	files, err := collectYAMLFiles(path)
	if err != nil {
		return nil, err
	}

	results := make([]TemplateDefinitionLoadResult, 0, len(files))
	for _, file := range files {
		def, loadErr := loadTemplateDefinitionFile(file)
		results = append(results, TemplateDefinitionLoadResult{Path: file, Def: def, Err: loadErr})
	}

	return results, nil
}

// LoadTemplateDefinitions loads TemplateDefinition resources from a file or directory.
// If path is a file, it loads exactly that file.
// If path is a directory, it loads all .yaml and .yml files in the directory (non-recursive).
func LoadTemplateDefinitions(path string) ([]*v1alpha1.TemplateDefinition, error) {
	results, err := LoadTemplateDefinitionsDetailed(path)
	if err != nil {
		return nil, err
	}

	loaded := make([]*v1alpha1.TemplateDefinition, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("failed to load %q: %w", result.Path, result.Err)
		}
		loaded = append(loaded, result.Def)
	}

	return loaded, nil
}

// LoadTemplateDefinition loads exactly one TemplateDefinition. Commands
// that operate on a single template use it to reject ambiguous input.
func LoadTemplateDefinition(path string) (*v1alpha1.TemplateDefinition, error) {
	defs, err := LoadTemplateDefinitions(path)
	if err != nil {
		return nil, err
	}
	if len(defs) != 1 {
		return nil, fmt.Errorf("expected exactly one TemplateDefinition in %q, found %d", path, len(defs))
	}
	return defs[0], nil
}

func loadTemplateDefinitionFile(path string) (*v1alpha1.TemplateDefinition, error) {
	data, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	var def v1alpha1.TemplateDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal TemplateDefinition: %w", err)
	}

	// Verify it's actually a TemplateDefinition.
	if def.Kind != v1alpha1.TemplateDefinitionKind {
		return nil, fmt.Errorf("expected kind %s, got %q", v1alpha1.TemplateDefinitionKind, def.Kind)
	}

	return &def, nil
}

// loadFile reads a YAML file and returns its content as a byte slice.
func loadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path %q is a directory, provide a path to a template file (.yaml or .yml)", path)
	}

	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("file %q must have a .yaml or .yml extension", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return content, nil
}
