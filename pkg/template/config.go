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

import "strings"

// FieldConfig is a sparse override record for one field path. Only keys
// with non-empty values are retained; a record whose keys are all empty
// is deleted from the store entirely rather than kept as an empty shell.
type FieldConfig struct {
	Default     any    `json:"default,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
}

// IsZero reports whether no override is present.
func (c FieldConfig) IsZero() bool {
	return c.Default == nil && c.Title == "" && c.Description == "" && c.Format == ""
}

// normalize trims text overrides. Whitespace-only values count as unset,
// including a whitespace-only string default.
func (c FieldConfig) normalize() FieldConfig {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Format = strings.TrimSpace(c.Format)
	if s, ok := c.Default.(string); ok && strings.TrimSpace(s) == "" {
		c.Default = nil
	}
	return c
}

// ConfigStore keeps field overrides keyed by resource key and field
// path. Implementations hold one logical writer at a time; the editing
// flow is sequential between UI events.
type ConfigStore interface {
	// Get returns the stored override for a field path.
	Get(resourceKey, fieldPath string) (FieldConfig, bool)
	// Set normalizes and stores cfg, replacing any previous record for
	// the path. A record normalizing to all-empty is deleted instead.
	// Set returns the normalized record and whether an entry remains.
	Set(resourceKey, fieldPath string, cfg FieldConfig) (FieldConfig, bool)
	// Delete removes the override for a field path.
	Delete(resourceKey, fieldPath string)
	// List returns a copy of all overrides recorded for one resource.
	List(resourceKey string) map[string]FieldConfig
}

// MemoryConfigStore is the in-memory ConfigStore used by editing
// sessions and tests. Persistent backends implement the same contract.
type MemoryConfigStore struct {
	entries map[string]map[string]FieldConfig
}

// NewMemoryConfigStore returns an empty store.
func NewMemoryConfigStore() *MemoryConfigStore {
	return &MemoryConfigStore{entries: map[string]map[string]FieldConfig{}}
}

func (s *MemoryConfigStore) Get(resourceKey, fieldPath string) (FieldConfig, bool) {
	cfg, ok := s.entries[resourceKey][fieldPath]
	return cfg, ok
}

func (s *MemoryConfigStore) Set(resourceKey, fieldPath string, cfg FieldConfig) (FieldConfig, bool) {
	normalized := cfg.normalize()
	if normalized.IsZero() {
		s.Delete(resourceKey, fieldPath)
		return FieldConfig{}, false
	}
	byPath := s.entries[resourceKey]
	if byPath == nil {
		byPath = map[string]FieldConfig{}
		s.entries[resourceKey] = byPath
	}
	byPath[fieldPath] = normalized
	return normalized, true
}

func (s *MemoryConfigStore) Delete(resourceKey, fieldPath string) {
	byPath := s.entries[resourceKey]
	if byPath == nil {
		return
	}
	delete(byPath, fieldPath)
	if len(byPath) == 0 {
		delete(s.entries, resourceKey)
	}
}

func (s *MemoryConfigStore) List(resourceKey string) map[string]FieldConfig {
	byPath := s.entries[resourceKey]
	if len(byPath) == 0 {
		return nil
	}
	out := make(map[string]FieldConfig, len(byPath))
	for path, cfg := range byPath {
		out[path] = cfg
	}
	return out
}
