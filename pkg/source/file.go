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

package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	k8sschema "k8s.io/apimachinery/pkg/runtime/schema"
	openapispec "k8s.io/kube-openapi/pkg/validation/spec"
	"sigs.k8s.io/yaml"

	"github.com/ngvtien/config-pilot-sub003/pkg/schema"
	"github.com/ngvtien/config-pilot-sub003/pkg/template"
)

// gvkExtension marks a schema definition with the Kubernetes resources
// it describes.
const gvkExtension = "x-kubernetes-group-version-kind"

// FileProvider serves schemas discovered in local files. Discovery runs
// once at construction; the provider is read-only afterwards and safe
// for concurrent use.
type FileProvider struct {
	resources []ResourceInfo
	documents map[string]*schema.Document
	logger    *slog.Logger
}

var _ Provider = (*FileProvider)(nil)

// FileProviderOption configures a FileProvider.
type FileProviderOption func(*FileProvider)

// WithLogger routes discovery diagnostics to logger.
func WithLogger(logger *slog.Logger) FileProviderOption {
	return func(p *FileProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewFileProvider discovers resource schemas under path. If path is a
// file, exactly that file is read; if it is a directory, every .json,
// .yaml and .yml file in it (non-recursive, sorted) is read. The first
// discovery of a resource key wins; later duplicates are skipped.
func NewFileProvider(path string, opts ...FileProviderOption) (*FileProvider, error) {
	p := &FileProvider{
		documents: map[string]*schema.Document{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	files, err := collectSchemaFiles(path)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if err := p.loadFile(file); err != nil {
			return nil, fmt.Errorf("loading schema file %q: %w", file, err)
		}
	}
	return p, nil
}

// Resources lists every discovered resource in discovery order.
func (p *FileProvider) Resources() []ResourceInfo {
	out := make([]ResourceInfo, len(p.resources))
	copy(out, p.resources)
	return out
}

// Schema returns the schema document for a resource key.
func (p *FileProvider) Schema(key string) (*schema.Document, error) {
	doc, ok := p.documents[key]
	if !ok {
		return nil, fmt.Errorf("schema for %q: %w", key, ErrResourceNotFound)
	}
	return doc, nil
}

// collectSchemaFiles returns the schema file paths under path. If path
// is a file, it returns a single-element slice. If path is a directory,
// it returns all .json, .yaml and .yml files in the directory
// (non-recursive), sorted.
func collectSchemaFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		if !isSchemaFile(path) {
			return nil, fmt.Errorf("file %q must have a .json, .yaml or .yml extension", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isSchemaFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

func isSchemaFile(path string) bool {
	switch filepath.Ext(path) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func (p *FileProvider) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := schema.LoadDocument(data)
	if err != nil {
		return err
	}
	raw := doc.Raw()

	if kind, _ := raw["kind"].(string); kind == "CustomResourceDefinition" {
		return p.addCRD(path, raw)
	}
	if _, ok := raw["swagger"]; ok {
		return p.addSwagger(path, raw, data)
	}
	p.addPlain(path, raw)
	return nil
}

// addCRD registers one resource per served version of the definition.
func (p *FileProvider) addCRD(path string, raw map[string]any) error {
	spec, _ := raw["spec"].(map[string]any)
	if spec == nil {
		return fmt.Errorf("CustomResourceDefinition has no spec")
	}
	group, _ := spec["group"].(string)
	names, _ := spec["names"].(map[string]any)
	kind, _ := names["kind"].(string)
	if kind == "" {
		return fmt.Errorf("CustomResourceDefinition has no spec.names.kind")
	}

	versions, _ := spec["versions"].([]any)
	for _, v := range versions {
		version, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if served, ok := version["served"].(bool); ok && !served {
			continue
		}
		name, _ := version["name"].(string)
		if name == "" {
			continue
		}
		var root map[string]any
		if sch, ok := version["schema"].(map[string]any); ok {
			root, _ = sch["openAPIV3Schema"].(map[string]any)
		}
		if root == nil {
			p.logger.Debug("skipping CRD version without schema",
				"path", path, "kind", kind, "version", name)
			continue
		}
		gvk := k8sschema.GroupVersionKind{Group: group, Version: name, Kind: kind}
		p.add(path, gvk, schema.NewDocumentWithRoot(raw, root))
	}
	if len(versions) > 0 {
		return nil
	}

	// Legacy apiextensions/v1beta1 shape: a single spec.version with a
	// shared spec.validation schema.
	name, _ := spec["version"].(string)
	var root map[string]any
	if validation, ok := spec["validation"].(map[string]any); ok {
		root, _ = validation["openAPIV3Schema"].(map[string]any)
	}
	if name == "" || root == nil {
		return fmt.Errorf("CustomResourceDefinition has no versions")
	}
	gvk := k8sschema.GroupVersionKind{Group: group, Version: name, Kind: kind}
	p.add(path, gvk, schema.NewDocumentWithRoot(raw, root))
	return nil
}

// addSwagger registers every definition of an OpenAPI v2 document that
// carries the x-kubernetes-group-version-kind extension.
func (p *FileProvider) addSwagger(path string, raw map[string]any, data []byte) error {
	var sw openapispec.Swagger
	if err := yaml.Unmarshal(data, &sw); err != nil {
		return fmt.Errorf("parsing swagger document: %w", err)
	}
	definitions, _ := raw["definitions"].(map[string]any)

	names := make([]string, 0, len(sw.Definitions))
	for name := range sw.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := sw.Definitions[name]
		gvks := parseGVKExtension(def.Extensions[gvkExtension])
		if len(gvks) == 0 {
			continue
		}
		root, ok := definitions[name].(map[string]any)
		if !ok {
			continue
		}
		// Some definitions describe several resources (WatchEvent and
		// friends); each GVK gets its own key over the same fragment.
		for _, gvk := range gvks {
			p.add(path, gvk, schema.NewDocumentWithRoot(raw, root))
		}
	}
	return nil
}

// addPlain registers a single resource for a standalone schema file,
// identified by a root GVK extension when present and the file name
// otherwise.
func (p *FileProvider) addPlain(path string, raw map[string]any) {
	if gvks := parseGVKExtension(raw[gvkExtension]); len(gvks) > 0 {
		p.add(path, gvks[0], schema.NewDocument(raw))
		return
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.addInfo(path, ResourceInfo{Kind: name, Key: name}, schema.NewDocument(raw))
}

func (p *FileProvider) add(path string, gvk k8sschema.GroupVersionKind, doc *schema.Document) {
	p.addInfo(path, ResourceInfo{
		Group:   gvk.Group,
		Version: gvk.Version,
		Kind:    gvk.Kind,
		Key:     template.ResourceKey(gvk.GroupVersion().String(), gvk.Kind),
	}, doc)
}

func (p *FileProvider) addInfo(path string, info ResourceInfo, doc *schema.Document) {
	if _, exists := p.documents[info.Key]; exists {
		p.logger.Debug("skipping duplicate resource", "path", path, "key", info.Key)
		return
	}
	p.documents[info.Key] = doc
	p.resources = append(p.resources, info)
	p.logger.Debug("discovered resource", "path", path, "key", info.Key)
}

// parseGVKExtension decodes the value of the GVK extension: a list of
// {group, version, kind} objects.
func parseGVKExtension(value any) []k8sschema.GroupVersionKind {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]k8sschema.GroupVersionKind, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		gvk := k8sschema.GroupVersionKind{}
		gvk.Group, _ = entry["group"].(string)
		gvk.Version, _ = entry["version"].(string)
		gvk.Kind, _ = entry["kind"].(string)
		if gvk.Version == "" || gvk.Kind == "" {
			continue
		}
		out = append(out, gvk)
	}
	return out
}
