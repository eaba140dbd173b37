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
	"log/slog"
	"strings"

	"github.com/tombee/nf-schema-builder/internal/schema"
)

// Validation plugins whose schema conventions this tool understands.
const (
	PluginNFSchema     = "nf-schema"
	PluginNFValidation = "nf-validation"
)

// Dialect captures the schema conventions of the active validation
// plugin: where definitions live, which draft the schema declares, and
// which parameters validation must skip.
type Dialect struct {
	Plugin        string
	DefsKey       string
	SchemaDraft   string
	IgnoredParams []string
}

// ResolveDialect inspects the workflow configuration's plugin list and
// derives the matching dialect. The first plugin token containing a
// recognized identifier wins; substring matching is deliberate since
// tokens carry versions (e.g. "nf-schema@2.0.0"). When neither plugin
// is configured the nf-schema conventions apply, with a logged notice.
func ResolveDialect(cfg *Config, logger *slog.Logger) *Dialect {
	plugin := ""
	for _, token := range cfg.Plugins() {
		if strings.Contains(token, PluginNFSchema) {
			plugin = PluginNFSchema
			break
		}
		if strings.Contains(token, PluginNFValidation) {
			plugin = PluginNFValidation
			break
		}
	}
	if plugin == "" {
		logger.Info("could not find nf-schema or nf-validation in the pipeline config, " +
			"defaulting to nf-schema notation for the JSON schema")
		plugin = PluginNFSchema
	}

	d := &Dialect{Plugin: plugin}

	var ignored []string
	if plugin == PluginNFSchema {
		d.DefsKey = schema.DefsKeyDefs
		d.SchemaDraft = schema.Draft2020URI

		ignored = []string{
			cfg.Get("validation.help.shortParameter", "help"),
			cfg.Get("validation.help.fullParameter", "helpFull"),
			cfg.Get("validation.help.showHiddenParameter", "showHidden"),
			// The trace report suffix is a timestamp, never schema-valid.
			"trace_report_suffix",
		}
		if extra := parseIgnoreList(cfg.Get("validation.defaultIgnoreParams", "")); len(extra) > 0 {
			logger.Debug("ignoring parameters from config", slog.Any("params", extra))
			ignored = append(ignored, extra...)
		}
	} else {
		d.DefsKey = schema.DefsKeyDefinitions
		d.SchemaDraft = schema.Draft7URI

		raw := strings.Trim(cfg.Get("validationSchemaIgnoreParams", ""), `"'`)
		ignored = strings.Split(raw, ",")
		ignored = append(ignored, "validationSchemaIgnoreParams")
	}

	for _, name := range ignored {
		if name != "" {
			d.IgnoredParams = append(d.IgnoredParams, name)
		}
	}
	logger.Debug("resolved validation dialect",
		slog.String("dialect", d.Plugin),
		slog.Any("ignored_params", d.IgnoredParams))

	return d
}

// parseIgnoreList unpacks a bracketed, quoted, comma-separated config
// value like `['fasta', "gtf"]` into clean entries, dropping empties.
func parseIgnoreList(raw string) []string {
	cleaned := strings.Trim(raw, `[]'"`)
	if cleaned == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(cleaned, ",") {
		item = strings.TrimSpace(item)
		item = strings.Trim(item, `'"`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
