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
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/sets"
)

// TypeUnknown marks a property whose schema declares no type.
const TypeUnknown = "unknown"

// maxTreeDepth bounds tree construction on pathological documents.
// Real resource schemas stay well below this.
const maxTreeDepth = 50

// TreeNode is one selectable property in the hierarchical view of a
// schema. Path is the dotted path from the schema root and stays stable
// across rebuilds of the same document, so it can be persisted as a
// selection identifier.
type TreeNode struct {
	Name        string
	Path        string
	Type        string
	Description string
	Required    bool
	Enum        []string
	Items       *extv1.JSONSchemaProps
	Children    []*TreeNode
}

// BuildTree resolves root against doc and walks its properties into a
// tree of selectable nodes. Children are ordered by name so rebuilding
// from the same document yields the same tree.
func BuildTree(root *extv1.JSONSchemaProps, doc *Document) []*TreeNode {
	resolved, _ := Resolve(root, doc, nil)
	if resolved == nil {
		return nil
	}
	return childNodes(resolved, "", 0)
}

func childNodes(prop *extv1.JSONSchemaProps, parentPath string, depth int) []*TreeNode {
	if prop == nil || len(prop.Properties) == 0 || depth >= maxTreeDepth {
		return nil
	}

	names := make([]string, 0, len(prop.Properties))
	for name := range prop.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := sets.New(prop.Required...)
	nodes := make([]*TreeNode, 0, len(names))
	for _, name := range names {
		child := prop.Properties[name]
		path := name
		if parentPath != "" {
			path = parentPath + "." + name
		}
		node := &TreeNode{
			Name:        name,
			Path:        path,
			Type:        nodeType(&child),
			Description: child.Description,
			Required:    required.Has(name),
			Enum:        enumStrings(child.Enum),
		}
		if node.Type == "array" && child.Items != nil {
			node.Items = child.Items.Schema
		}
		node.Children = childNodes(&child, path, depth+1)
		nodes = append(nodes, node)
	}
	return nodes
}

func nodeType(prop *extv1.JSONSchemaProps) string {
	switch {
	case prop.Type != "":
		return prop.Type
	case len(prop.Properties) > 0:
		return "object"
	default:
		return TypeUnknown
	}
}

func enumStrings(values []extv1.JSON) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		var s string
		if err := json.Unmarshal(value.Raw, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(value.Raw))
	}
	return out
}

// NodeIndex flattens nodes into a path lookup map. A path seen twice is
// skipped on the second encounter, so malformed or cyclic trees index
// without looping.
func NodeIndex(nodes []*TreeNode) map[string]*TreeNode {
	index := make(map[string]*TreeNode)
	var walk func([]*TreeNode)
	walk = func(nodes []*TreeNode) {
		for _, node := range nodes {
			if node == nil {
				continue
			}
			if _, seen := index[node.Path]; seen {
				continue
			}
			index[node.Path] = node
			walk(node.Children)
		}
	}
	walk(nodes)
	return index
}

// Walk visits node and its descendants depth-first until fn returns
// false.
func (n *TreeNode) Walk(fn func(*TreeNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the forest, children included.
func Count(nodes []*TreeNode) int {
	return len(NodeIndex(nodes))
}

// String renders a compact one-line summary, useful in logs.
func (n *TreeNode) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Path + " (" + n.Type + ", " + strconv.Itoa(len(n.Children)) + " children)"
}
