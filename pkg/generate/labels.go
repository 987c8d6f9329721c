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
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
	"sigs.k8s.io/release-utils/version"

	"github.com/ngvtien/config-pilot-sub003/api/v1alpha1"
)

const (
	// LabelPrefix is the label key prefix used on generated manifests.
	LabelPrefix = v1alpha1.Group + "/"

	// TemplateLabel records which template a manifest was generated from.
	TemplateLabel = LabelPrefix + "template"

	// VersionLabel records the config-pilot version that generated a
	// manifest.
	VersionLabel = LabelPrefix + "version"

	// ManagedByLabel is the recommended app.kubernetes.io/managed-by key.
	ManagedByLabel = "app.kubernetes.io/managed-by"

	// ManagedByValue marks a manifest as generated by config-pilot.
	ManagedByValue = "config-pilot"
)

// CommonLabels returns the labels stamped on every generated manifest.
// The template name is recorded when non-empty.
func CommonLabels(templateName string) map[string]string {
	labels := map[string]string{
		ManagedByLabel: ManagedByValue,
		VersionLabel:   safeVersion(version.GetVersionInfo().GitVersion),
	}
	if templateName != "" {
		labels[TemplateLabel] = templateName
	}
	return labels
}

func safeVersion(v string) string {
	if validation.IsValidLabelValue(v) == nil {
		return v
	}
	// Development builds may carry '+dirty', which is not a valid label
	// value.
	return strings.ReplaceAll(v, "+", "-")
}
