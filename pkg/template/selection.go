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

// SelectionStore persists the promoted fields of a resource. The field
// slice for one resource key is the unit of persistence.
type SelectionStore interface {
	Fields(resourceKey string) []Field
	SetFields(resourceKey string, fields []Field)
}

// MemorySelectionStore is the in-memory SelectionStore used by editing
// sessions and tests.
type MemorySelectionStore struct {
	fields map[string][]Field
}

// NewMemorySelectionStore returns an empty store.
func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{fields: map[string][]Field{}}
}

func (s *MemorySelectionStore) Fields(resourceKey string) []Field {
	stored := s.fields[resourceKey]
	if len(stored) == 0 {
		return nil
	}
	return append([]Field(nil), stored...)
}

func (s *MemorySelectionStore) SetFields(resourceKey string, fields []Field) {
	if len(fields) == 0 {
		delete(s.fields, resourceKey)
		return
	}
	s.fields[resourceKey] = append([]Field(nil), fields...)
}
