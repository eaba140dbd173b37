// Copyright 2025 Tom Barlow
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

package nfconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfigLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"plain", "params.outdir = results", "params.outdir", "results", true},
		{"single quoted", "params.input = 'samples.csv'", "params.input", "samples.csv", true},
		{"double quoted", `manifest.name = "my-pipeline"`, "manifest.name", "my-pipeline", true},
		{"no separator", "not a config line", "", "", false},
		{"empty value", "params.empty = ''", "", "", false},
		{"empty line", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := parseConfigLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestParseMainNF(t *testing.T) {
	content := `
params.input = null
  params.outdir = './results'
params.check == true
params.genome= 'GRCh38'
// params not a declaration
workflow { }
`

	params := parseMainNF(content)

	assert.Equal(t, "null", params["params.input"])
	assert.Equal(t, "null", params["params.outdir"])
	assert.Equal(t, "null", params["params.genome"])
	assert.NotContains(t, params, "params.check", "comparisons are not declarations")
	assert.Len(t, params, 3)
}

func TestConfigParams(t *testing.T) {
	cfg := NewConfig(map[string]string{
		"params.input":  "samples.csv",
		"params.outdir": "results",
		"manifest.name": "pipe",
	})

	params := cfg.Params()
	assert.Len(t, params, 2)
	assert.Equal(t, "samples.csv", params["params.input"])
	assert.NotContains(t, params, "manifest.name")
}

func TestConfigPlugins(t *testing.T) {
	tests := []struct {
		name    string
		plugins string
		want    []string
	}{
		{"single", "nf-schema@2.0.0", []string{"nf-schema@2.0.0"}},
		{"multiple", "nf-schema@2.0.0,nf-prov", []string{"nf-schema@2.0.0", "nf-prov"}},
		{"quoted", `'nf-validation'`, []string{"nf-validation"}},
		{"empty", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(map[string]string{"plugins": tt.plugins})
			assert.Equal(t, tt.want, cfg.Plugins())
		})
	}
}

func TestConfigGetFallback(t *testing.T) {
	cfg := NewConfig(map[string]string{"a": "1"})
	assert.Equal(t, "1", cfg.Get("a", "x"))
	assert.Equal(t, "x", cfg.Get("b", "x"))
}
