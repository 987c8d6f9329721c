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

package view

import (
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

type GenerateView interface {
	Render(result GenerateResult)
}

// GenerateResult reports the artifacts a generate run wrote. Files are
// relative to Directory.
type GenerateResult struct {
	Format    string   `json:"format"`
	Directory string   `json:"directory"`
	Files     []string `json:"files"`
}

// Human view implementation.

type generateHumanView struct {
	*HumanView
}

func newGenerateHumanView(hv *HumanView) *generateHumanView {
	return &generateHumanView{HumanView: hv}
}

func (v *generateHumanView) Render(result GenerateResult) {
	for _, f := range result.Files {
		v.Println("Wrote", filepath.Join(result.Directory, f))
	}
}

// JSON view implementation.

type generateJSONView struct {
	*JSONView
}

func newGenerateJSONView(jv *JSONView) *generateJSONView {
	return &generateJSONView{JSONView: jv}
}

type generateJSONResult struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	GenerateResult
}

func (v *generateJSONView) Render(result GenerateResult) {
	out := generateJSONResult{
		Type:           "generate",
		Status:         "success",
		Timestamp:      time.Now(),
		GenerateResult: result,
	}

	if data, err := json.Marshal(out); err == nil {
		v.Println(string(data))
	}
}

func NewGenerateView(v Viewer) GenerateView {
	switch vt := v.(type) {
	case *HumanView:
		return newGenerateHumanView(vt)
	case *JSONView:
		return newGenerateJSONView(vt)
	default:
		panic("unknown view type")
	}
}
