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
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tombee/nf-schema-builder/internal/schema"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveDialectNFSchema(t *testing.T) {
	cfg := NewConfig(map[string]string{"plugins": "nf-schema@2.0.0"})

	d := ResolveDialect(cfg, discardLogger())

	assert.Equal(t, PluginNFSchema, d.Plugin)
	assert.Equal(t, schema.DefsKeyDefs, d.DefsKey)
	assert.Equal(t, schema.Draft2020URI, d.SchemaDraft)
	assert.Contains(t, d.IgnoredParams, "help")
	assert.Contains(t, d.IgnoredParams, "helpFull")
	assert.Contains(t, d.IgnoredParams, "showHidden")
	assert.Contains(t, d.IgnoredParams, "trace_report_suffix")
}

func TestResolveDialectNFValidation(t *testing.T) {
	cfg := NewConfig(map[string]string{"plugins": "nf-validation"})

	d := ResolveDialect(cfg, discardLogger())

	assert.Equal(t, PluginNFValidation, d.Plugin)
	assert.Equal(t, schema.DefsKeyDefinitions, d.DefsKey)
	assert.Equal(t, schema.Draft7URI, d.SchemaDraft)
	assert.Contains(t, d.IgnoredParams, "validationSchemaIgnoreParams")
}

func TestResolveDialectNFValidationIgnoreParams(t *testing.T) {
	cfg := NewConfig(map[string]string{
		"plugins":                      "nf-validation@1.1.3",
		"validationSchemaIgnoreParams": `"genomes,igenomes_base"`,
	})

	d := ResolveDialect(cfg, discardLogger())

	assert.Contains(t, d.IgnoredParams, "genomes")
	assert.Contains(t, d.IgnoredParams, "igenomes_base")
}

func TestResolveDialectDefaultsToNFSchema(t *testing.T) {
	cfg := NewConfig(map[string]string{"plugins": "nf-prov"})

	d := ResolveDialect(cfg, discardLogger())

	assert.Equal(t, PluginNFSchema, d.Plugin)
	assert.Equal(t, schema.DefsKeyDefs, d.DefsKey)
}

func TestResolveDialectFirstPluginWins(t *testing.T) {
	cfg := NewConfig(map[string]string{"plugins": "nf-validation@1.0.0,nf-schema@2.0.0"})

	d := ResolveDialect(cfg, discardLogger())
	assert.Equal(t, PluginNFValidation, d.Plugin)
}

func TestResolveDialectCustomHelpParams(t *testing.T) {
	cfg := NewConfig(map[string]string{
		"plugins":                             "nf-schema",
		"validation.help.shortParameter":      "h",
		"validation.help.fullParameter":       "fullHelp",
		"validation.help.showHiddenParameter": "all",
	})

	d := ResolveDialect(cfg, discardLogger())

	assert.Contains(t, d.IgnoredParams, "h")
	assert.Contains(t, d.IgnoredParams, "fullHelp")
	assert.Contains(t, d.IgnoredParams, "all")
	assert.NotContains(t, d.IgnoredParams, "help")
}

func TestResolveDialectConfigIgnoreList(t *testing.T) {
	cfg := NewConfig(map[string]string{
		"plugins":                        "nf-schema",
		"validation.defaultIgnoreParams": `['fasta', "gtf", , '']`,
	})

	d := ResolveDialect(cfg, discardLogger())

	assert.Contains(t, d.IgnoredParams, "fasta")
	assert.Contains(t, d.IgnoredParams, "gtf")
	for _, p := range d.IgnoredParams {
		assert.NotEmpty(t, p, "empty entries must be filtered out")
	}
}

func TestParseIgnoreList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"bracketed quoted", `['a', 'b']`, []string{"a", "b"}},
		{"mixed quotes", `["a", 'b']`, []string{"a", "b"}},
		{"bare", "a,b", []string{"a", "b"}},
		{"empty entries dropped", "a,,b, ", []string{"a", "b"}},
		{"empty string", "", nil},
		{"only brackets", "[]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIgnoreList(tt.raw))
		})
	}
}
