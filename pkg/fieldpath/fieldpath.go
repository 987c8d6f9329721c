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

// Package fieldpath provides helpers for the dotted paths that address
// schema properties, including normalization of paths that were recorded
// with a resource-key prefix.
package fieldpath

import "strings"

// knownRoots are the top-level properties a Kubernetes resource schema
// can declare. The normalization heuristic cuts prefixed paths back to
// the first of these when the resource key itself cannot be matched.
var knownRoots = map[string]struct{}{
	"metadata":   {},
	"spec":       {},
	"data":       {},
	"status":     {},
	"kind":       {},
	"apiVersion": {},
	"rules":      {},
	"subjects":   {},
	"roleRef":    {},
}

// IsKnownRoot reports whether segment is a recognized top-level schema
// property.
func IsKnownRoot(segment string) bool {
	_, ok := knownRoots[segment]
	return ok
}

// Normalize strips a resource-key prefix from path. Selections recorded
// by earlier versions carried paths such as
// "apps/v1/Deployment.spec.replicas" while schema trees address the same
// property as "spec.replicas".
//
// When resourceKey does not literally prefix path, paths deeper than two
// segments are cut back to the first known top-level property. Anything
// else is returned unchanged, so canonical paths pass through untouched
// and Normalize is idempotent.
func Normalize(path, resourceKey string) string {
	if path == "" {
		return path
	}
	if resourceKey != "" {
		if rest, ok := strings.CutPrefix(path, resourceKey+"."); ok {
			return rest
		}
	}
	segments := strings.Split(path, ".")
	if len(segments) <= 2 {
		return path
	}
	for i, segment := range segments {
		if IsKnownRoot(segment) {
			return strings.Join(segments[i:], ".")
		}
	}
	return path
}

// Segments splits a dotted path. An empty path yields nil.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Join assembles segments into a dotted path.
func Join(segments ...string) string {
	return strings.Join(segments, ".")
}

// Root returns the first segment of path.
func Root(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// IsAncestor reports whether path addresses a property nested below
// ancestor. A path is not its own ancestor.
func IsAncestor(ancestor, path string) bool {
	return ancestor != "" && strings.HasPrefix(path, ancestor+".")
}

// Depth returns the number of segments in path.
func Depth(path string) int {
	return len(Segments(path))
}
